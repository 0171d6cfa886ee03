package dto

// ErrorResponse cuerpo de error HTTP. Details lleva el contexto del error de dominio
// (componente, solicitado/disponible, objetivo/actual, campo inválido).
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}
