package gestor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/smartpark/portal/internal/backend"
	"github.com/smartpark/portal/internal/format"
	"github.com/smartpark/portal/internal/util"
)

var (
	// ErrEntradaInvalida marca falhas de validação de formulário.
	ErrEntradaInvalida = errors.New("entrada inválida")
)

type estacionamentoAPI interface {
	List(ctx context.Context, token string) ([]backend.Estacionamento, error)
	Get(ctx context.Context, token string, id int) (*backend.Estacionamento, error)
	Create(ctx context.Context, token string, input backend.EstacionamentoInput) (*backend.Estacionamento, error)
	Update(ctx context.Context, token string, id int, input backend.EstacionamentoInput) (*backend.Estacionamento, error)
	Delete(ctx context.Context, token string, id int) error
}

type vagaAPI interface {
	ListByEstacionamento(ctx context.Context, token string, estacionamentoID int) ([]backend.Vaga, error)
	Create(ctx context.Context, token string, input backend.VagaInput) (*backend.Vaga, error)
	Update(ctx context.Context, token string, id int, input backend.VagaInput) (*backend.Vaga, error)
	Delete(ctx context.Context, token string, id int) error
}

type tarifaAPI interface {
	List(ctx context.Context, token string) ([]backend.Tarifa, error)
	Create(ctx context.Context, token string, input backend.TarifaInput) (*backend.Tarifa, error)
	Update(ctx context.Context, token string, id int, input backend.TarifaInput) (*backend.Tarifa, error)
	Delete(ctx context.Context, token string, id int) error
}

type acessoAPI interface {
	List(ctx context.Context, token string) ([]backend.Acesso, error)
}

type reservaAPI interface {
	List(ctx context.Context, token string) ([]backend.Reserva, error)
}

// Service concentra as operações das telas do gestor. Toda a
// persistência mora do outro lado da fronteira REST; aqui ficam a
// validação de formulário, a normalização e a agregação por tela.
type Service struct {
	estacionamentos estacionamentoAPI
	vagas           vagaAPI
	tarifas         tarifaAPI
	acessos         acessoAPI
	reservas        reservaAPI
}

func NewService(api *backend.API) *Service {
	return &Service{
		estacionamentos: api.Estacionamentos,
		vagas:           api.Vagas,
		tarifas:         api.Tarifas,
		acessos:         api.Acessos,
		reservas:        api.Reservas,
	}
}

// EstacionamentoForm é o formulário de criação/edição de estacionamento.
type EstacionamentoForm struct {
	Nome           string             `json:"nome"`
	Capacidade     int                `json:"capacidade"`
	HoraAbertura   string             `json:"hora_abertura"`
	HoraFechamento string             `json:"hora_fechamento"`
	Endereco       backend.Endereco   `json:"endereco"`
	Telefones      []backend.Telefone `json:"telefones"`
}

// VagaForm é o formulário de criação/edição de vaga.
type VagaForm struct {
	Identificacao string `json:"identificacao"`
	Tipo          string `json:"tipo"`
	Disponivel    string `json:"disponivel"`
}

// TarifaForm é o formulário de criação/edição de tarifa.
type TarifaForm struct {
	Nome             string  `json:"nome"`
	Valor            float64 `json:"valor"`
	Tipo             string  `json:"tipo"`
	EstacionamentoID int     `json:"estacionamento_id"`
	Ativa            string  `json:"ativa"`
}

// TelaVagas agrega a tela de vagas de um estacionamento.
type TelaVagas struct {
	Estacionamento *backend.Estacionamento `json:"estacionamento"`
	Vagas          []backend.Vaga          `json:"vagas"`
}

// TelaTarifas agrega tarifas com a lista de estacionamentos do gestor.
type TelaTarifas struct {
	Tarifas         []backend.Tarifa         `json:"tarifas"`
	Estacionamentos []backend.Estacionamento `json:"estacionamentos"`
}

// TelaAcessos agrega acessos com a lista de estacionamentos do gestor.
type TelaAcessos struct {
	Acessos         []backend.Acesso         `json:"acessos"`
	Estacionamentos []backend.Estacionamento `json:"estacionamentos"`
}

// TelaReservas agrega reservas com a lista de estacionamentos do gestor.
type TelaReservas struct {
	Reservas        []backend.Reserva        `json:"reservas"`
	Estacionamentos []backend.Estacionamento `json:"estacionamentos"`
}

func (s *Service) ListarEstacionamentos(ctx context.Context, token string) ([]backend.Estacionamento, error) {
	return s.estacionamentos.List(ctx, token)
}

// CriarEstacionamento valida e normaliza o formulário antes do envio:
// CEP e telefones seguem apenas com dígitos, estado em maiúsculas.
func (s *Service) CriarEstacionamento(ctx context.Context, token string, gestorID int, form EstacionamentoForm) (*backend.Estacionamento, error) {
	input, err := montarEstacionamento(gestorID, form)
	if err != nil {
		return nil, err
	}
	return s.estacionamentos.Create(ctx, token, *input)
}

func (s *Service) AtualizarEstacionamento(ctx context.Context, token string, gestorID, id int, form EstacionamentoForm) (*backend.Estacionamento, error) {
	input, err := montarEstacionamento(gestorID, form)
	if err != nil {
		return nil, err
	}
	return s.estacionamentos.Update(ctx, token, id, *input)
}

func (s *Service) ExcluirEstacionamento(ctx context.Context, token string, id int) error {
	return s.estacionamentos.Delete(ctx, token, id)
}

func montarEstacionamento(gestorID int, form EstacionamentoForm) (*backend.EstacionamentoInput, error) {
	if err := util.Obrigatorio(form.Nome, "nome"); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEntradaInvalida, err)
	}
	if form.Capacidade <= 0 {
		return nil, fmt.Errorf("%w: capacidade deve ser positiva", ErrEntradaInvalida)
	}
	if err := util.Obrigatorio(form.HoraAbertura, "hora de abertura"); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEntradaInvalida, err)
	}
	if err := util.Obrigatorio(form.HoraFechamento, "hora de fechamento"); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEntradaInvalida, err)
	}
	if gestorID == 0 {
		return nil, fmt.Errorf("%w: gestor não identificado", ErrEntradaInvalida)
	}

	endereco := form.Endereco
	endereco.CEP = format.ApenasDigitos(endereco.CEP)
	endereco.Estado = strings.ToUpper(strings.TrimSpace(endereco.Estado))

	telefones := make([]backend.Telefone, 0, len(form.Telefones))
	for _, tel := range form.Telefones {
		telefones = append(telefones, backend.Telefone{
			DDD:    format.ApenasDigitos(tel.DDD),
			Numero: format.ApenasDigitos(tel.Numero),
		})
	}

	return &backend.EstacionamentoInput{
		Nome:           form.Nome,
		Capacidade:     form.Capacidade,
		HoraAbertura:   form.HoraAbertura,
		HoraFechamento: form.HoraFechamento,
		GestorID:       gestorID,
		Endereco:       endereco,
		Telefones:      telefones,
	}, nil
}

// Vagas carrega vagas e estacionamento em paralelo, bloqueando a tela
// até as duas respostas chegarem.
func (s *Service) Vagas(ctx context.Context, token string, estacionamentoID int) (*TelaVagas, error) {
	var tela TelaVagas

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vagas, err := s.vagas.ListByEstacionamento(ctx, token, estacionamentoID)
		if err != nil {
			return err
		}
		tela.Vagas = vagas
		return nil
	})
	g.Go(func() error {
		est, err := s.estacionamentos.Get(ctx, token, estacionamentoID)
		if err != nil {
			return err
		}
		tela.Estacionamento = est
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &tela, nil
}

func (s *Service) CriarVaga(ctx context.Context, token string, estacionamentoID int, form VagaForm) (*backend.Vaga, error) {
	input, err := montarVaga(estacionamentoID, form)
	if err != nil {
		return nil, err
	}
	return s.vagas.Create(ctx, token, *input)
}

func (s *Service) AtualizarVaga(ctx context.Context, token string, estacionamentoID, vagaID int, form VagaForm) (*backend.Vaga, error) {
	input, err := montarVaga(estacionamentoID, form)
	if err != nil {
		return nil, err
	}
	return s.vagas.Update(ctx, token, vagaID, *input)
}

func (s *Service) ExcluirVaga(ctx context.Context, token string, vagaID int) error {
	return s.vagas.Delete(ctx, token, vagaID)
}

var tiposVaga = map[string]struct{}{
	backend.VagaCarro:      {},
	backend.VagaMoto:       {},
	backend.VagaDeficiente: {},
	backend.VagaIdoso:      {},
	backend.VagaEletrico:   {},
	backend.VagaOutro:      {},
}

func montarVaga(estacionamentoID int, form VagaForm) (*backend.VagaInput, error) {
	if err := util.Obrigatorio(form.Identificacao, "identificação"); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEntradaInvalida, err)
	}
	if _, ok := tiposVaga[form.Tipo]; !ok {
		return nil, fmt.Errorf("%w: tipo de vaga desconhecido", ErrEntradaInvalida)
	}
	if form.Disponivel != backend.Sim && form.Disponivel != backend.Nao {
		return nil, fmt.Errorf("%w: disponível deve ser S ou N", ErrEntradaInvalida)
	}
	return &backend.VagaInput{
		Identificacao:    form.Identificacao,
		Tipo:             form.Tipo,
		Disponivel:       form.Disponivel,
		EstacionamentoID: estacionamentoID,
	}, nil
}

// Tarifas carrega tarifas e estacionamentos em paralelo. O filtro por
// estacionamento é aplicado sobre a lista já carregada, como na tela
// original; zero significa todas.
func (s *Service) Tarifas(ctx context.Context, token string, filtroEstacionamento int) (*TelaTarifas, error) {
	var tela TelaTarifas

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tarifas, err := s.tarifas.List(ctx, token)
		if err != nil {
			return err
		}
		tela.Tarifas = tarifas
		return nil
	})
	g.Go(func() error {
		ests, err := s.estacionamentos.List(ctx, token)
		if err != nil {
			return err
		}
		tela.Estacionamentos = ests
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if filtroEstacionamento != 0 {
		filtradas := tela.Tarifas[:0]
		for _, tarifa := range tela.Tarifas {
			if tarifa.EstacionamentoID == filtroEstacionamento {
				filtradas = append(filtradas, tarifa)
			}
		}
		tela.Tarifas = filtradas
	}
	return &tela, nil
}

var tiposTarifa = map[string]struct{}{
	backend.TarifaSegundo: {},
	backend.TarifaMinuto:  {},
	backend.TarifaHora:    {},
	backend.TarifaDia:     {},
	backend.TarifaMes:     {},
}

func (s *Service) CriarTarifa(ctx context.Context, token string, form TarifaForm) (*backend.Tarifa, error) {
	input, err := montarTarifa(form)
	if err != nil {
		return nil, err
	}
	return s.tarifas.Create(ctx, token, *input)
}

func (s *Service) AtualizarTarifa(ctx context.Context, token string, id int, form TarifaForm) (*backend.Tarifa, error) {
	input, err := montarTarifa(form)
	if err != nil {
		return nil, err
	}
	return s.tarifas.Update(ctx, token, id, *input)
}

func (s *Service) ExcluirTarifa(ctx context.Context, token string, id int) error {
	return s.tarifas.Delete(ctx, token, id)
}

func montarTarifa(form TarifaForm) (*backend.TarifaInput, error) {
	if err := util.Obrigatorio(form.Nome, "nome"); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEntradaInvalida, err)
	}
	if form.Valor < 0 {
		return nil, fmt.Errorf("%w: valor não pode ser negativo", ErrEntradaInvalida)
	}
	if _, ok := tiposTarifa[form.Tipo]; !ok {
		return nil, fmt.Errorf("%w: tipo de tarifa desconhecido", ErrEntradaInvalida)
	}
	if form.EstacionamentoID == 0 {
		return nil, fmt.Errorf("%w: estacionamento obrigatório", ErrEntradaInvalida)
	}
	ativa := form.Ativa
	if ativa == "" {
		ativa = backend.Sim
	}
	if ativa != backend.Sim && ativa != backend.Nao {
		return nil, fmt.Errorf("%w: ativa deve ser S ou N", ErrEntradaInvalida)
	}
	return &backend.TarifaInput{
		Nome:             form.Nome,
		Valor:            form.Valor,
		Tipo:             form.Tipo,
		EstacionamentoID: form.EstacionamentoID,
		Ativa:            ativa,
	}, nil
}

// Acessos carrega acessos e estacionamentos em paralelo, filtrando
// localmente pelo estacionamento da vaga.
func (s *Service) Acessos(ctx context.Context, token string, filtroEstacionamento int) (*TelaAcessos, error) {
	var tela TelaAcessos

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		acessos, err := s.acessos.List(ctx, token)
		if err != nil {
			return err
		}
		tela.Acessos = acessos
		return nil
	})
	g.Go(func() error {
		ests, err := s.estacionamentos.List(ctx, token)
		if err != nil {
			return err
		}
		tela.Estacionamentos = ests
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if filtroEstacionamento != 0 {
		filtrados := tela.Acessos[:0]
		for _, acesso := range tela.Acessos {
			if acesso.Vaga != nil && acesso.Vaga.Estacionamento != nil &&
				acesso.Vaga.Estacionamento.ID == filtroEstacionamento {
				filtrados = append(filtrados, acesso)
			}
		}
		tela.Acessos = filtrados
	}
	return &tela, nil
}

// Reservas carrega reservas e estacionamentos em paralelo, com filtros
// locais por estacionamento e por status.
func (s *Service) Reservas(ctx context.Context, token string, filtroEstacionamento int, filtroStatus string) (*TelaReservas, error) {
	var tela TelaReservas

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		reservas, err := s.reservas.List(ctx, token)
		if err != nil {
			return err
		}
		tela.Reservas = reservas
		return nil
	})
	g.Go(func() error {
		ests, err := s.estacionamentos.List(ctx, token)
		if err != nil {
			return err
		}
		tela.Estacionamentos = ests
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if filtroEstacionamento != 0 || filtroStatus != "" {
		filtradas := tela.Reservas[:0]
		for _, reserva := range tela.Reservas {
			if filtroEstacionamento != 0 {
				if reserva.Vaga == nil || reserva.Vaga.Estacionamento == nil ||
					reserva.Vaga.Estacionamento.ID != filtroEstacionamento {
					continue
				}
			}
			if filtroStatus != "" && reserva.Status != filtroStatus {
				continue
			}
			filtradas = append(filtradas, reserva)
		}
		tela.Reservas = filtradas
	}
	return &tela, nil
}
