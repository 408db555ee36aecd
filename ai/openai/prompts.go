package openai

import "fmt"

// systemPrompt pins the assistant to the supplied data. Kept in Portuguese
// to match the audience of the messaging channel.
const systemPrompt = "Você é um assistente preciso que responde com base nos dados fornecidos."

// buildUserPrompt embeds the retrieved context and the original question
// into a single user instruction.
func buildUserPrompt(contextData, question string) string {
	return fmt.Sprintf("Baseado nos seguintes dados: '%s', responda à pergunta: '%s'", contextData, question)
}
