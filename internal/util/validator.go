package util

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/smartpark/portal/internal/format"
)

// ValidarEmail retorna erro para e-mails inválidos.
func ValidarEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email obrigatório")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.New("email inválido")
	}
	return nil
}

// ValidarSenha verifica requisitos mínimos de senha.
func ValidarSenha(senha string) error {
	if len(senha) < 8 {
		return errors.New("senha deve ter pelo menos 8 caracteres")
	}
	return nil
}

// Obrigatorio garante string não vazia.
func Obrigatorio(valor, campo string) error {
	if strings.TrimSpace(valor) == "" {
		return errors.New(campo + " obrigatório")
	}
	return nil
}

// ValidarCNPJ exige exatamente 14 dígitos, com ou sem máscara.
func ValidarCNPJ(cnpj string) error {
	if len(format.ApenasDigitos(cnpj)) != 14 {
		return errors.New("cnpj deve ter 14 dígitos")
	}
	return nil
}

// ValidarPlaca exige sete caracteres alfanuméricos, com ou sem hífen.
func ValidarPlaca(placa string) error {
	limpa := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(placa)), "-", "")
	if len(limpa) != 7 {
		return errors.New("placa inválida")
	}
	for _, r := range limpa {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return errors.New("placa inválida")
		}
	}
	return nil
}
