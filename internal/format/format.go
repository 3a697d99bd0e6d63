// Package format aplica as máscaras de entrada usadas nos formulários
// do portal: CNPJ, CEP, telefone e placa.
package format

import "strings"

// ApenasDigitos remove tudo que não for dígito.
func ApenasDigitos(valor string) string {
	var b strings.Builder
	for _, r := range valor {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CNPJ aplica a máscara 00.000.000/0000-00 progressivamente. Entradas
// com mais de 14 dígitos ficam sem máscara.
func CNPJ(valor string) string {
	digitos := ApenasDigitos(valor)
	if len(digitos) > 14 {
		return digitos
	}

	var b strings.Builder
	for i, r := range digitos {
		switch i {
		case 2, 5:
			b.WriteByte('.')
		case 8:
			b.WriteByte('/')
		case 12:
			b.WriteByte('-')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Placa normaliza para maiúsculas, remove não alfanuméricos e insere o
// hífen após o terceiro caractere, limitada a sete caracteres úteis.
func Placa(valor string) string {
	limpa := make([]rune, 0, len(valor))
	for _, r := range strings.ToUpper(valor) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			limpa = append(limpa, r)
		}
	}
	if len(limpa) > 7 {
		limpa = limpa[:7]
	}
	if len(limpa) <= 3 {
		return string(limpa)
	}
	return string(limpa[:3]) + "-" + string(limpa[3:])
}

// PlacaSemMascara devolve a placa em maiúsculas e sem o hífen, no
// formato que o backend armazena.
func PlacaSemMascara(valor string) string {
	return strings.ReplaceAll(Placa(valor), "-", "")
}

// CEP aplica a máscara 00000-000.
func CEP(valor string) string {
	digitos := ApenasDigitos(valor)
	if len(digitos) > 8 {
		digitos = digitos[:8]
	}
	if len(digitos) <= 5 {
		return digitos
	}
	return digitos[:5] + "-" + digitos[5:]
}

// Telefone separa os quatro últimos dígitos: 1234-5678 ou 12345-6789.
func Telefone(valor string) string {
	digitos := ApenasDigitos(valor)
	if len(digitos) <= 4 {
		return digitos
	}
	if len(digitos) <= 9 {
		return digitos[:len(digitos)-4] + "-" + digitos[len(digitos)-4:]
	}
	return digitos[:5] + "-" + digitos[5:9]
}
