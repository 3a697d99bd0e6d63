package backend

import (
	"fmt"
	"time"
)

// API agrupa os clientes tipados dos dois serviços REST: auth e
// backend geral.
type API struct {
	Auth            *AuthClient
	Estacionamentos *EstacionamentoClient
	Vagas           *VagaClient
	Reservas        *ReservaClient
	Acessos         *AcessoClient
	Tarifas         *TarifaClient
	Veiculos        *VeiculoClient
}

// NewAPI monta os clientes sobre as duas base URLs com o mesmo timeout.
func NewAPI(authBaseURL, backendBaseURL string, timeout time.Duration) (*API, error) {
	authClient, err := NewClient(authBaseURL, timeout)
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}
	generalClient, err := NewClient(backendBaseURL, timeout)
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}

	return &API{
		Auth:            NewAuthClient(authClient),
		Estacionamentos: NewEstacionamentoClient(generalClient),
		Vagas:           NewVagaClient(generalClient),
		Reservas:        NewReservaClient(generalClient),
		Acessos:         NewAcessoClient(generalClient),
		Tarifas:         NewTarifaClient(generalClient),
		Veiculos:        NewVeiculoClient(generalClient),
	}, nil
}
