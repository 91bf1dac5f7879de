package dto

type FieldsOutput struct {
	PostalCode string `json:"cep"`
	Street     string `json:"logradouro"`
	City       string `json:"cidade"`
	District   string `json:"bairro"`
	StateCode  string `json:"estado"`
	AreaCode   string `json:"ddd"`
}

type FormOutput struct {
	Fields         FieldsOutput `json:"fields"`
	LoaderVisible  bool         `json:"loader_visible"`
	MessageVisible bool         `json:"message_visible"`
	OverlayVisible bool         `json:"overlay_visible"`
	Message        string       `json:"message,omitempty"`
}
