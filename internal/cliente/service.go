package cliente

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/smartpark/portal/internal/backend"
	"github.com/smartpark/portal/internal/format"
	"github.com/smartpark/portal/internal/reserva"
	"github.com/smartpark/portal/internal/util"
)

var (
	// ErrEntradaInvalida marca falhas de validação de formulário.
	ErrEntradaInvalida = errors.New("entrada inválida")
)

type estacionamentoAPI interface {
	List(ctx context.Context, token string) ([]backend.Estacionamento, error)
	Get(ctx context.Context, token string, id int) (*backend.Estacionamento, error)
}

type vagaAPI interface {
	ListByEstacionamento(ctx context.Context, token string, estacionamentoID int) ([]backend.Vaga, error)
	Get(ctx context.Context, token string, id int) (*backend.Vaga, error)
}

type reservaAPI interface {
	ListCliente(ctx context.Context, token string) ([]backend.Reserva, error)
	Cancelar(ctx context.Context, token string, id int) error
	VerificarDisponibilidade(ctx context.Context, token string, req backend.DisponibilidadeRequest) (bool, error)
	Create(ctx context.Context, token string, input backend.ReservaInput) (*backend.Reserva, error)
}

type veiculoAPI interface {
	ListCliente(ctx context.Context, token string) ([]backend.Veiculo, error)
	Create(ctx context.Context, token string, input backend.VeiculoInput) (*backend.Veiculo, error)
	Update(ctx context.Context, token string, id int, input backend.VeiculoInput) (*backend.Veiculo, error)
	Delete(ctx context.Context, token string, id int) error
}

type acessoAPI interface {
	ListCliente(ctx context.Context, token string) ([]backend.Acesso, error)
	Pagar(ctx context.Context, token string, id int) (*backend.Acesso, error)
}

// Service concentra as operações das telas do cliente.
type Service struct {
	estacionamentos estacionamentoAPI
	vagas           vagaAPI
	reservas        reservaAPI
	veiculos        veiculoAPI
	acessos         acessoAPI
}

func NewService(api *backend.API) *Service {
	return &Service{
		estacionamentos: api.Estacionamentos,
		vagas:           api.Vagas,
		reservas:        api.Reservas,
		veiculos:        api.Veiculos,
		acessos:         api.Acessos,
	}
}

// TelaVagas é a tela de vagas de um estacionamento vista pelo cliente,
// com a contagem de vagas livres que a listagem exibe.
type TelaVagas struct {
	Estacionamento *backend.Estacionamento `json:"estacionamento"`
	Vagas          []backend.Vaga          `json:"vagas"`
	VagasLivres    int                     `json:"vagas_livres"`
}

// TelaReservar agrega tudo que a tela de nova reserva precisa: a vaga,
// o estacionamento dela, os veículos do cliente e o preenchimento
// inicial de data e hora.
type TelaReservar struct {
	Vaga           *backend.Vaga           `json:"vaga"`
	Estacionamento *backend.Estacionamento `json:"estacionamento"`
	Veiculos       []backend.Veiculo       `json:"veiculos"`
	Data           string                  `json:"data"`
	HoraInicio     string                  `json:"hora_inicio"`
	VeiculoID      int                     `json:"veiculo_id"`
}

func (s *Service) ListarEstacionamentos(ctx context.Context, token string) ([]backend.Estacionamento, error) {
	return s.estacionamentos.List(ctx, token)
}

// Vagas carrega vagas e estacionamento em paralelo e conta as livres.
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

	for _, vaga := range tela.Vagas {
		if vaga.Disponivel == backend.Sim {
			tela.VagasLivres++
		}
	}
	return &tela, nil
}

// Reservar monta a tela de nova reserva: vaga, estacionamento e
// veículos em paralelo, data e hora preenchidas com o agora e o
// primeiro veículo já selecionado quando existir.
func (s *Service) Reservar(ctx context.Context, token string, estacionamentoID, vagaID int, agora time.Time) (*TelaReservar, error) {
	var tela TelaReservar

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vaga, err := s.vagas.Get(ctx, token, vagaID)
		if err != nil {
			return err
		}
		tela.Vaga = vaga
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
	g.Go(func() error {
		veiculos, err := s.veiculos.ListCliente(ctx, token)
		if err != nil {
			return err
		}
		tela.Veiculos = veiculos
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tela.Data = agora.Format("2006-01-02")
	tela.HoraInicio = agora.Format("15:04")
	if len(tela.Veiculos) > 0 {
		tela.VeiculoID = tela.Veiculos[0].ID
	}
	return &tela, nil
}

// NovoFluxo abre a máquina de estados de uma tentativa de reserva
// sobre a vaga escolhida.
func (s *Service) NovoFluxo(vagaID int) *reserva.Workflow {
	return reserva.NewWorkflow(s.reservas, vagaID)
}

func (s *Service) ListarReservas(ctx context.Context, token string) ([]backend.Reserva, error) {
	return s.reservas.ListCliente(ctx, token)
}

func (s *Service) CancelarReserva(ctx context.Context, token string, id int) error {
	return s.reservas.Cancelar(ctx, token, id)
}

func (s *Service) ListarVeiculos(ctx context.Context, token string) ([]backend.Veiculo, error) {
	return s.veiculos.ListCliente(ctx, token)
}

// CriarVeiculo valida a placa e envia sem máscara, maiúscula.
func (s *Service) CriarVeiculo(ctx context.Context, token, placa string) (*backend.Veiculo, error) {
	normalizada, err := normalizarPlaca(placa)
	if err != nil {
		return nil, err
	}
	return s.veiculos.Create(ctx, token, backend.VeiculoInput{Placa: normalizada})
}

func (s *Service) AtualizarVeiculo(ctx context.Context, token string, id int, placa string) (*backend.Veiculo, error) {
	normalizada, err := normalizarPlaca(placa)
	if err != nil {
		return nil, err
	}
	return s.veiculos.Update(ctx, token, id, backend.VeiculoInput{Placa: normalizada})
}

func (s *Service) ExcluirVeiculo(ctx context.Context, token string, id int) error {
	return s.veiculos.Delete(ctx, token, id)
}

func normalizarPlaca(placa string) (string, error) {
	if err := util.ValidarPlaca(placa); err != nil {
		return "", fmt.Errorf("%w: %s", ErrEntradaInvalida, err)
	}
	return format.PlacaSemMascara(placa), nil
}

func (s *Service) ListarAcessos(ctx context.Context, token string) ([]backend.Acesso, error) {
	return s.acessos.ListCliente(ctx, token)
}

func (s *Service) PagarAcesso(ctx context.Context, token string, id int) (*backend.Acesso, error) {
	return s.acessos.Pagar(ctx, token, id)
}
