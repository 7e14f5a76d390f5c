package ports

import (
	"context"

	"github.com/jhoicas/comercio-api/internal/application/dto"
)

// LLMService define el puerto de salida para el asistente de IA.
// Cualquier adaptador (Anthropic, Gemini, mock) debe implementar esta interfaz.
// El LLM solo planifica cuál herramienta invocar: la ejecución pasa por los mismos
// casos de uso que usan los handlers HTTP, nunca por SQL directo.
type LLMService interface {
	// PlanToolCall analiza el mensaje del usuario y devuelve la herramienta a invocar
	// con sus argumentos tipados. El contexto debe llevar un timeout para evitar
	// bloqueos en llamadas externas.
	PlanToolCall(ctx context.Context, message string) (*dto.ToolCall, error)
}
