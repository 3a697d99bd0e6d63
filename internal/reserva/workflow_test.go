package reserva

import (
	"context"
	"errors"
	"testing"

	"github.com/smartpark/portal/internal/backend"
)

type stubReservaAPI struct {
	disponivel   bool
	verificarErr error
	criada       *backend.Reserva
	createErr    error

	verificacoes []backend.DisponibilidadeRequest
	criadas      []backend.ReservaInput

	// quando definido, a verificação espera a liberação e avisa o início
	iniciou  chan struct{}
	liberar  chan struct{}
	lentaFim string
}

func (s *stubReservaAPI) VerificarDisponibilidade(ctx context.Context, token string, req backend.DisponibilidadeRequest) (bool, error) {
	s.verificacoes = append(s.verificacoes, req)
	if s.iniciou != nil && req.HoraFim == s.lentaFim {
		s.iniciou <- struct{}{}
		<-s.liberar
		return false, nil
	}
	return s.disponivel, s.verificarErr
}

func (s *stubReservaAPI) Create(ctx context.Context, token string, input backend.ReservaInput) (*backend.Reserva, error) {
	s.criadas = append(s.criadas, input)
	return s.criada, s.createErr
}

func TestWorkflowConfirmacao(t *testing.T) {
	api := &stubReservaAPI{
		disponivel: true,
		criada:     &backend.Reserva{ID: 7, Status: backend.ReservaAtiva},
	}
	wf := NewWorkflow(api, 3)

	if wf.PodeConfirmar() {
		t.Fatal("não deveria confirmar sem horário nem veículo")
	}
	if _, err := wf.Confirmar(context.Background(), "tok"); !errors.Is(err, ErrNaoConfirmavel) {
		t.Fatalf("esperava ErrNaoConfirmavel, veio %v", err)
	}

	if err := wf.DefinirHorario(context.Background(), "tok", "2026-08-29", "09:00", 2); err != nil {
		t.Fatalf("definir horário: %v", err)
	}
	if wf.EstadoAtual() != EstadoDisponivel {
		t.Fatalf("esperava disponível, veio %v", wf.EstadoAtual())
	}
	if wf.PodeConfirmar() {
		t.Fatal("não deveria confirmar sem veículo")
	}

	wf.SelecionarVeiculo(12)
	if !wf.PodeConfirmar() {
		t.Fatal("deveria poder confirmar")
	}

	criada, err := wf.Confirmar(context.Background(), "tok")
	if err != nil {
		t.Fatalf("confirmar: %v", err)
	}
	if criada.ID != 7 {
		t.Fatalf("reserva errada: %+v", criada)
	}
	if wf.EstadoAtual() != EstadoConcluido {
		t.Fatalf("esperava concluído, veio %v", wf.EstadoAtual())
	}

	input := api.criadas[0]
	if input.VagaID != 3 || input.VeiculoID != 12 {
		t.Fatalf("input errado: %+v", input)
	}
	if input.HoraInicio != "09:00:00" || input.HoraFim != "11:00:00" {
		t.Fatalf("horários errados: %+v", input)
	}
	if input.Status != backend.ReservaAtiva {
		t.Fatalf("status errado: %q", input.Status)
	}

	// concluído não aceita mais edição
	if err := wf.DefinirHorario(context.Background(), "tok", "2026-08-29", "10:00", 1); !errors.Is(err, ErrReservaEncerrada) {
		t.Fatalf("esperava ErrReservaEncerrada, veio %v", err)
	}
}

func TestWorkflowIndisponivel(t *testing.T) {
	api := &stubReservaAPI{disponivel: false}
	wf := NewWorkflow(api, 3)
	wf.SelecionarVeiculo(12)

	if err := wf.DefinirHorario(context.Background(), "tok", "2026-08-29", "09:00", 2); err != nil {
		t.Fatalf("definir horário: %v", err)
	}
	if wf.EstadoAtual() != EstadoIndisponivel {
		t.Fatalf("esperava indisponível, veio %v", wf.EstadoAtual())
	}
	if wf.PodeConfirmar() {
		t.Fatal("não deveria confirmar vaga indisponível")
	}
	if wf.Mensagem() == "" {
		t.Fatal("esperava mensagem de indisponibilidade")
	}
}

func TestWorkflowFalhaNoEnvioVoltaAEditar(t *testing.T) {
	api := &stubReservaAPI{
		disponivel: true,
		createErr:  errors.New("vaga ocupada"),
	}
	wf := NewWorkflow(api, 3)
	wf.SelecionarVeiculo(12)

	if err := wf.DefinirHorario(context.Background(), "tok", "2026-08-29", "09:00", 2); err != nil {
		t.Fatalf("definir horário: %v", err)
	}
	if _, err := wf.Confirmar(context.Background(), "tok"); err == nil {
		t.Fatal("esperava falha no envio")
	}

	// a falha devolve o fluxo ao estado editável, ainda confirmável
	if wf.EstadoAtual() != EstadoDisponivel {
		t.Fatalf("esperava disponível, veio %v", wf.EstadoAtual())
	}
	if !wf.PodeConfirmar() {
		t.Fatal("deveria continuar confirmável após a falha")
	}
	if wf.Mensagem() == "" {
		t.Fatal("esperava mensagem da falha")
	}
}

func TestWorkflowDescartaVerificacaoSuperada(t *testing.T) {
	api := &stubReservaAPI{
		disponivel: true,
		iniciou:    make(chan struct{}, 1),
		liberar:    make(chan struct{}),
		lentaFim:   "11:00:00",
	}
	wf := NewWorkflow(api, 3)
	wf.SelecionarVeiculo(12)

	done := make(chan error, 1)
	go func() {
		done <- wf.DefinirHorario(context.Background(), "tok", "2026-08-29", "09:00", 2)
	}()
	<-api.iniciou

	// segunda edição chega antes da primeira verificação responder
	if err := wf.DefinirHorario(context.Background(), "tok", "2026-08-29", "14:00", 1); err != nil {
		t.Fatalf("definir horário: %v", err)
	}
	if wf.EstadoAtual() != EstadoDisponivel {
		t.Fatalf("esperava disponível, veio %v", wf.EstadoAtual())
	}

	// a resposta atrasada (indisponível) da edição superada é descartada
	close(api.liberar)
	if err := <-done; err != nil {
		t.Fatalf("verificação superada: %v", err)
	}
	if wf.EstadoAtual() != EstadoDisponivel {
		t.Fatalf("resposta atrasada não deveria mudar o estado, veio %v", wf.EstadoAtual())
	}
	if wf.HoraFim() != "15:00" {
		t.Fatalf("hora fim errada: %q", wf.HoraFim())
	}
}

func TestWorkflowValidacoes(t *testing.T) {
	wf := NewWorkflow(&stubReservaAPI{}, 3)

	if err := wf.DefinirHorario(context.Background(), "tok", "2026-08-29", "09:00", 5); !errors.Is(err, ErrDuracaoInvalida) {
		t.Fatalf("esperava ErrDuracaoInvalida, veio %v", err)
	}
	if err := wf.DefinirHorario(context.Background(), "tok", "2026-08-29", "9h", 1); !errors.Is(err, ErrHoraInvalida) {
		t.Fatalf("esperava ErrHoraInvalida, veio %v", err)
	}
	if wf.EstadoAtual() != EstadoOcioso {
		t.Fatalf("entrada inválida não deveria sair do ocioso, veio %v", wf.EstadoAtual())
	}
}
