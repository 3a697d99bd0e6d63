package reserva

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrHoraInvalida indica hora fora do formato HH:MM.
	ErrHoraInvalida = errors.New("hora inválida")
	// ErrDuracaoInvalida indica duração fora do conjunto permitido.
	ErrDuracaoInvalida = errors.New("duração inválida")
)

// Duracoes é o conjunto de durações oferecidas ao cliente, em horas.
var Duracoes = []float64{0.5, 1, 2, 3, 4, 6, 8, 12, 24}

// DuracaoPermitida informa se a duração pertence ao conjunto oferecido.
func DuracaoPermitida(duracao float64) bool {
	for _, d := range Duracoes {
		if d == duracao {
			return true
		}
	}
	return false
}

// CalcularHoraFim soma a duração à hora de início em minutos desde a
// meia-noite, com volta módulo 24h, e devolve HH:MM com zero à esquerda.
// Uma reserva pode atravessar a meia-noite; a data do término não é
// ajustada. Comportamento herdado do fluxo original, mantido de
// propósito (ver DESIGN.md).
func CalcularHoraFim(horaInicio string, duracao float64) (string, error) {
	hora, minuto, err := parseHora(horaInicio)
	if err != nil {
		return "", err
	}

	totalMinutos := hora*60 + minuto + int(math.Round(duracao*60))
	novaHora := (totalMinutos / 60) % 24
	novoMinuto := totalMinutos % 60
	return fmt.Sprintf("%02d:%02d", novaHora, novoMinuto), nil
}

func parseHora(valor string) (int, int, error) {
	partes := strings.Split(strings.TrimSpace(valor), ":")
	if len(partes) < 2 {
		return 0, 0, ErrHoraInvalida
	}

	hora, err := strconv.Atoi(partes[0])
	if err != nil || hora < 0 || hora > 23 {
		return 0, 0, ErrHoraInvalida
	}
	minuto, err := strconv.Atoi(partes[1])
	if err != nil || minuto < 0 || minuto > 59 {
		return 0, 0, ErrHoraInvalida
	}
	return hora, minuto, nil
}
