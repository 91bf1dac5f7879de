package dto

type KeyPressInput struct {
	Key string `json:"key"`
}

type KeyPressOutput struct {
	Accepted bool `json:"accepted"`
}

type KeyUpInput struct {
	Value string `json:"value"`
}

type ErrorOutput struct {
	Message string `json:"message"`
}
