package backend

// Perfis de usuário.
const (
	PerfilCliente = "C"
	PerfilGestor  = "G"
)

// Status de reserva.
const (
	ReservaAtiva     = "ativa"
	ReservaConcluida = "concluida"
	ReservaCancelada = "cancelada"
	ReservaExpirada  = "expirada"
)

// Tipos de vaga.
const (
	VagaCarro      = "carro"
	VagaMoto       = "moto"
	VagaDeficiente = "deficiente"
	VagaIdoso      = "idoso"
	VagaEletrico   = "eletrico"
	VagaOutro      = "outro"
)

// Tipos de tarifa (unidade de cobrança).
const (
	TarifaSegundo = "segundo"
	TarifaMinuto  = "minuto"
	TarifaHora    = "hora"
	TarifaDia     = "dia"
	TarifaMes     = "mes"
)

// Flags S/N usadas pelo backend.
const (
	Sim = "S"
	Nao = "N"
)

// Usuario é o perfil autenticado devolvido pelo serviço de auth.
type Usuario struct {
	ID     int    `json:"id"`
	Perfil string `json:"perfil"`
	Nome   string `json:"nome"`
	Email  string `json:"email"`
	CNPJ   string `json:"cnpj,omitempty"`
}

// Endereco de um estacionamento, dígitos sem máscara no CEP.
type Endereco struct {
	CEP         string `json:"cep"`
	Estado      string `json:"estado"`
	Cidade      string `json:"cidade"`
	Bairro      string `json:"bairro"`
	Numero      string `json:"numero"`
	Logradouro  string `json:"logradouro"`
	Complemento string `json:"complemento"`
}

// Telefone de contato, DDD e número apenas com dígitos.
type Telefone struct {
	DDD    string `json:"ddd"`
	Numero string `json:"numero"`
}

type Estacionamento struct {
	ID             int        `json:"id_estacionamento"`
	Nome           string     `json:"nome"`
	Capacidade     int        `json:"capacidade"`
	HoraAbertura   string     `json:"hora_abertura"`
	HoraFechamento string     `json:"hora_fechamento"`
	Endereco       *Endereco  `json:"endereco,omitempty"`
	Telefones      []Telefone `json:"telefones,omitempty"`
	GestorID       int        `json:"gestor_id"`
}

type Vaga struct {
	ID               int             `json:"id_vaga"`
	Identificacao    string          `json:"identificacao"`
	Tipo             string          `json:"tipo"`
	Disponivel       string          `json:"disponivel"`
	EstacionamentoID int             `json:"estacionamento_id"`
	Estacionamento   *Estacionamento `json:"estacionamento,omitempty"`
}

type Reserva struct {
	ID         int      `json:"id_reserva"`
	VagaID     int      `json:"vaga_id,omitempty"`
	VeiculoID  int      `json:"veiculo_id,omitempty"`
	Data       string   `json:"data"`
	HoraInicio string   `json:"hora_inicio"`
	HoraFim    string   `json:"hora_fim"`
	Status     string   `json:"status"`
	Vaga       *Vaga    `json:"vaga,omitempty"`
	Veiculo    *Veiculo `json:"veiculo,omitempty"`
}

type Acesso struct {
	ID         int      `json:"id_acesso"`
	Vaga       *Vaga    `json:"vaga,omitempty"`
	Veiculo    *Veiculo `json:"veiculo,omitempty"`
	Cliente    *Usuario `json:"cliente,omitempty"`
	Data       string   `json:"data"`
	HoraInicio string   `json:"hora_inicio"`
	HoraFim    string   `json:"hora_fim"`
	Tarifa     *Tarifa  `json:"tarifa,omitempty"`
	ValorTotal float64  `json:"valor_total"`
	Pago       string   `json:"pago"`
}

type Veiculo struct {
	ID    int    `json:"id_veiculo"`
	Placa string `json:"placa"`
}

type Tarifa struct {
	ID               int     `json:"id_tarifa"`
	Nome             string  `json:"nome"`
	Valor            float64 `json:"valor"`
	Tipo             string  `json:"tipo"`
	EstacionamentoID int     `json:"estacionamento_id"`
	Ativa            string  `json:"ativa"`
}

// NomeTipoVaga devolve o rótulo de exibição de um tipo de vaga.
func NomeTipoVaga(tipo string) string {
	switch tipo {
	case VagaCarro:
		return "Carro"
	case VagaMoto:
		return "Moto"
	case VagaDeficiente:
		return "Deficiente"
	case VagaIdoso:
		return "Idoso"
	case VagaEletrico:
		return "Elétrico"
	case VagaOutro:
		return "Outro"
	default:
		return tipo
	}
}
