package dto

import (
	"bytes"
	"encoding/json"
)

// LocationResponse is the ViaCEP payload. It is also the shape persisted
// under the "endereco" storage key.
type LocationResponse struct {
	Cep        string    `json:"cep,omitempty"`
	Street     string    `json:"logradouro"`
	Complement string    `json:"complemento,omitempty"`
	District   string    `json:"bairro"`
	Locale     string    `json:"localidade"`
	State      string    `json:"uf"`
	Ibge       string    `json:"ibge,omitempty"`
	Gia        string    `json:"gia,omitempty"`
	AreaCode   string    `json:"ddd,omitempty"`
	Siafi      string    `json:"siafi,omitempty"`
	Error      ErrorFlag `json:"erro,omitempty"`
}

// ErrorFlag decodes the "erro" field, which ViaCEP has sent both as a
// boolean and as the string "true".
type ErrorFlag bool

func (f *ErrorFlag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = ErrorFlag(s == "true")
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*f = false
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	*f = ErrorFlag(b)
	return nil
}
