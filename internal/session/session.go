package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/smartpark/portal/internal/backend"
)

var (
	// ErrNaoEncontrada indica sessão inexistente ou expirada.
	ErrNaoEncontrada = errors.New("sessão não encontrada")
)

// Sessao é o estado autenticado de um usuário no portal. Criada no
// login, destruída no logout, em 401 do backend ou na expiração.
// Substitui o par token/usuario guardado em storage global do cliente.
type Sessao struct {
	ID       string           `json:"id"`
	Token    string           `json:"token"`
	Usuario  *backend.Usuario `json:"usuario"`
	CriadaEm time.Time        `json:"criada_em"`
	ExpiraEm time.Time        `json:"expira_em"`
}

// Expirada informa se a sessão já passou do prazo.
func (s *Sessao) Expirada(now time.Time) bool {
	return !s.ExpiraEm.IsZero() && now.After(s.ExpiraEm)
}

// Perfil devolve o perfil do usuário ou vazio.
func (s *Sessao) Perfil() string {
	if s.Usuario == nil {
		return ""
	}
	return s.Usuario.Perfil
}

// expiraEm calcula o fim de vida da sessão: o menor entre o TTL
// configurado e o exp do JWT emitido pelo serviço de auth. O token é
// opaco para o portal; o exp é lido sem validar assinatura, já que o
// segredo pertence ao serviço de auth.
func expiraEm(token string, criadaEm time.Time, ttl time.Duration) time.Time {
	limite := criadaEm.Add(ttl)

	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return limite
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(limite) {
		return claims.ExpiresAt.Time
	}
	return limite
}
