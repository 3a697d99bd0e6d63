package reserva

import (
	"context"
	"errors"
	"sync"

	"github.com/smartpark/portal/internal/backend"
)

var (
	// ErrNaoConfirmavel indica tentativa de confirmação com o gate fechado.
	ErrNaoConfirmavel = errors.New("reserva não confirmável no estado atual")
	// ErrReservaEncerrada indica edição após conclusão.
	ErrReservaEncerrada = errors.New("reserva já concluída")
)

// Estado do fluxo de reserva.
type Estado int

const (
	EstadoOcioso Estado = iota
	EstadoVerificando
	EstadoDisponivel
	EstadoIndisponivel
	EstadoEnviando
	EstadoConcluido
)

func (e Estado) String() string {
	switch e {
	case EstadoOcioso:
		return "ocioso"
	case EstadoVerificando:
		return "verificando"
	case EstadoDisponivel:
		return "disponivel"
	case EstadoIndisponivel:
		return "indisponivel"
	case EstadoEnviando:
		return "enviando"
	case EstadoConcluido:
		return "concluido"
	default:
		return "desconhecido"
	}
}

// API é o recorte do cliente de reservas usado pelo fluxo.
type API interface {
	VerificarDisponibilidade(ctx context.Context, token string, req backend.DisponibilidadeRequest) (bool, error)
	Create(ctx context.Context, token string, input backend.ReservaInput) (*backend.Reserva, error)
}

// Workflow é a máquina de estados de uma tentativa de reserva:
// ocioso → verificando → {disponível, indisponível} → enviando →
// {concluído, falha}. Cada edição de horário dispara nova verificação;
// resultados de verificações superadas são descartados por geração,
// fechando a corrida entre edições rápidas e respostas lentas.
type Workflow struct {
	api    API
	vagaID int

	mu         sync.Mutex
	estado     Estado
	geracao    uint64
	veiculoID  int
	data       string
	horaInicio string
	horaFim    string
	duracao    float64
	mensagem   string
}

func NewWorkflow(apiCliente API, vagaID int) *Workflow {
	return &Workflow{api: apiCliente, vagaID: vagaID, estado: EstadoOcioso}
}

// SelecionarVeiculo define o veículo da tentativa.
func (w *Workflow) SelecionarVeiculo(veiculoID int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.veiculoID = veiculoID
}

// DefinirHorario registra (data, hora de início, duração), calcula a
// hora de término e verifica disponibilidade no backend. Enquanto a
// verificação corre, a disponibilidade é desconhecida e a confirmação
// fica bloqueada.
func (w *Workflow) DefinirHorario(ctx context.Context, token, data, horaInicio string, duracao float64) error {
	if !DuracaoPermitida(duracao) {
		return ErrDuracaoInvalida
	}
	horaFim, err := CalcularHoraFim(horaInicio, duracao)
	if err != nil {
		return err
	}

	w.mu.Lock()
	if w.estado == EstadoConcluido {
		w.mu.Unlock()
		return ErrReservaEncerrada
	}
	w.data = data
	w.horaInicio = horaInicio
	w.horaFim = horaFim
	w.duracao = duracao
	w.geracao++
	geracao := w.geracao
	w.estado = EstadoVerificando
	req := backend.DisponibilidadeRequest{
		VagaID:     w.vagaID,
		Data:       data,
		HoraInicio: horaInicio + ":00",
		HoraFim:    horaFim + ":00",
	}
	w.mu.Unlock()

	disponivel, err := w.api.VerificarDisponibilidade(ctx, token, req)

	w.mu.Lock()
	defer w.mu.Unlock()
	if geracao != w.geracao {
		// resultado de uma edição superada
		return nil
	}
	if err != nil {
		w.estado = EstadoIndisponivel
		w.mensagem = err.Error()
		return err
	}
	if disponivel {
		w.estado = EstadoDisponivel
		w.mensagem = ""
	} else {
		w.estado = EstadoIndisponivel
		w.mensagem = "Vaga indisponível para o horário selecionado."
	}
	return nil
}

// PodeConfirmar é o gate do botão de confirmação: exige disponibilidade
// confirmada, veículo selecionado, nenhuma verificação pendente e
// nenhum envio em andamento.
func (w *Workflow) PodeConfirmar() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.podeConfirmar()
}

func (w *Workflow) podeConfirmar() bool {
	return w.estado == EstadoDisponivel && w.veiculoID != 0
}

// Confirmar envia a reserva com status ativa. Em caso de falha o fluxo
// volta ao estado editável com a mensagem do backend; em caso de
// sucesso transita para concluído e nenhuma edição posterior é aceita.
func (w *Workflow) Confirmar(ctx context.Context, token string) (*backend.Reserva, error) {
	w.mu.Lock()
	if !w.podeConfirmar() {
		w.mu.Unlock()
		return nil, ErrNaoConfirmavel
	}
	w.estado = EstadoEnviando
	input := backend.ReservaInput{
		VagaID:     w.vagaID,
		VeiculoID:  w.veiculoID,
		Data:       w.data,
		HoraInicio: w.horaInicio + ":00",
		HoraFim:    w.horaFim + ":00",
		Status:     backend.ReservaAtiva,
	}
	w.mu.Unlock()

	criada, err := w.api.Create(ctx, token, input)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.estado = EstadoDisponivel
		w.mensagem = err.Error()
		return nil, err
	}
	w.estado = EstadoConcluido
	w.mensagem = ""
	return criada, nil
}

// Estado devolve o estado corrente.
func (w *Workflow) EstadoAtual() Estado {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.estado
}

// HoraFim devolve o término calculado para o horário corrente.
func (w *Workflow) HoraFim() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.horaFim
}

// Mensagem devolve a última mensagem de indisponibilidade ou falha.
func (w *Workflow) Mensagem() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mensagem
}
