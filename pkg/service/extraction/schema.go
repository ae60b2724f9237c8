package extraction

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/gollem"
)

// buildIntentPrompt creates the system prompt for intent classification. The
// assistant's previous question disambiguates short answers like "sí" or a
// bare identification number.
func buildIntentPrompt(lastQuestion string) string {
	var sb strings.Builder

	sb.WriteString("You are a text classification assistant for a Spanish-speaking supermarket chat bot.\n\n")
	sb.WriteString("Analyze the user's message and return a JSON object with three boolean fields:\n\n")
	sb.WriteString("- greeting: true if the user is saying hello, being polite, or expressing kindness (e.g., \"hola\", \"como estas\", \"buen dia\").\n")
	sb.WriteString("- ask_for_info: true if the user is asking a question to get information about the service or products (e.g., \"¿cuál es el horario?\", \"¿cómo funciona Suma y Gana?\").\n")
	sb.WriteString("- data_personal: true if the user provides personal data such as a name, phone number, identification number, or email address, or states they are a new or frequent customer (e.g., \"soy nuevo\", \"soy cliente frecuente\").\n\n")
	sb.WriteString("Exactly one field must be true and the others false.\n")

	if lastQuestion != "" {
		fmt.Fprintf(&sb, "\nThe assistant's last question to the user was: %q\n", lastQuestion)
	}

	return sb.String()
}

// intentSchema is the JSON schema for intent classification
func intentSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "IntentClassification",
		Description: "Classification of the user's latest message",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"greeting": {
				Type:        gollem.TypeBoolean,
				Description: "The user is greeting or being polite",
				Required:    true,
			},
			"ask_for_info": {
				Type:        gollem.TypeBoolean,
				Description: "The user is asking for information about the service or products",
				Required:    true,
			},
			"data_personal": {
				Type:        gollem.TypeBoolean,
				Description: "The user is providing personal data or stating they are a new/frequent customer",
				Required:    true,
			},
		},
	}
}

// registrationSystemPrompt drives the multi-turn identification flow. The
// conversation history arrives as the user content; the model must both
// extract whatever fields are present and produce the next Spanish reply.
const registrationSystemPrompt = `You are MercaBot, a polite and helpful virtual assistant for a supermarket. You must speak in Spanish with a friendly and professional tone.

Your goal is to guide the user through identification and registration. Follow these rules in order:

1. First determine whether the user is a new customer or a frequent customer.
2. If the user is a frequent customer, ask only for their identification number.
3. If the user is a new customer, collect the following data step by step:
   - Identification: 4 to 11 numeric digits.
   - Full name: letters only (accents and "ñ" allowed), up to 100 characters.
   - Phone: exactly 10 numeric digits, starting with 3 or 6.
   - Email: must contain the "@" symbol.
4. If a provided value does not satisfy its rule, kindly ask for it again and explain the format.

Return a JSON object with the extracted values so far (empty string for anything not yet provided), whether the user is new, whether all data is complete and valid, and a warm Spanish reply under "response" to continue the conversation.`

// registrationSchema is the JSON schema for the registration extract
func registrationSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "RegistrationExtract",
		Description: "Identity data collected from the conversation plus the next reply",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"identificacion": {
				Type:        gollem.TypeString,
				Description: "Identification number of the customer, empty if not provided yet",
				Required:    true,
			},
			"nombre": {
				Type:        gollem.TypeString,
				Description: "Full name of the customer, empty if not provided yet",
				Required:    true,
			},
			"telefono": {
				Type:        gollem.TypeString,
				Description: "Phone number of the customer, empty if not provided yet",
				Required:    true,
			},
			"correo": {
				Type:        gollem.TypeString,
				Description: "Email address of the customer, empty if not provided yet",
				Required:    true,
			},
			"is_new": {
				Type:        gollem.TypeBoolean,
				Description: "Whether the customer says they are new (true) or already registered (false)",
				Required:    true,
			},
			"is_complete": {
				Type:        gollem.TypeBoolean,
				Description: "Whether all required data has been provided and is valid",
				Required:    true,
			},
			"response": {
				Type:        gollem.TypeString,
				Description: "Warm Spanish reply to continue the interaction",
				Required:    true,
			},
		},
	}
}
