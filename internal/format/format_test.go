package format

import "testing"

func TestCNPJ(t *testing.T) {
	tests := []struct {
		entrada string
		want    string
	}{
		{"", ""},
		{"12", "12"},
		{"123", "12.3"},
		{"12345678", "12.345.678"},
		{"123456789", "12.345.678/9"},
		{"12345678000195", "12.345.678/0001-95"},
		{"12.345.678/0001-95", "12.345.678/0001-95"},
		{"123456780001951", "123456780001951"},
	}

	for _, tc := range tests {
		if got := CNPJ(tc.entrada); got != tc.want {
			t.Errorf("CNPJ(%q) = %q, esperava %q", tc.entrada, got, tc.want)
		}
	}
}

func TestPlaca(t *testing.T) {
	tests := []struct {
		entrada string
		want    string
	}{
		{"", ""},
		{"ab", "AB"},
		{"abc", "ABC"},
		{"abc1", "ABC-1"},
		{"abc1234", "ABC-1234"},
		{"abc-1234", "ABC-1234"},
		{"abc1d23", "ABC-1D23"},
		{"abc12345", "ABC-1234"},
		{"a b c 1234!", "ABC-1234"},
	}

	for _, tc := range tests {
		if got := Placa(tc.entrada); got != tc.want {
			t.Errorf("Placa(%q) = %q, esperava %q", tc.entrada, got, tc.want)
		}
	}
}

func TestPlacaSemMascara(t *testing.T) {
	if got := PlacaSemMascara("abc-1234"); got != "ABC1234" {
		t.Fatalf("PlacaSemMascara = %q", got)
	}
}

func TestCEP(t *testing.T) {
	tests := []struct {
		entrada string
		want    string
	}{
		{"", ""},
		{"12345", "12345"},
		{"123456", "12345-6"},
		{"12345678", "12345-678"},
		{"12345-678", "12345-678"},
		{"123456789", "12345-678"},
	}

	for _, tc := range tests {
		if got := CEP(tc.entrada); got != tc.want {
			t.Errorf("CEP(%q) = %q, esperava %q", tc.entrada, got, tc.want)
		}
	}
}

func TestTelefone(t *testing.T) {
	tests := []struct {
		entrada string
		want    string
	}{
		{"", ""},
		{"1234", "1234"},
		{"12345678", "1234-5678"},
		{"123456789", "12345-6789"},
		{"(11) 91234-5678", "11912-3456"},
	}

	for _, tc := range tests {
		if got := Telefone(tc.entrada); got != tc.want {
			t.Errorf("Telefone(%q) = %q, esperava %q", tc.entrada, got, tc.want)
		}
	}
}

func TestApenasDigitos(t *testing.T) {
	if got := ApenasDigitos("a1b2-c3"); got != "123" {
		t.Fatalf("ApenasDigitos = %q", got)
	}
}
