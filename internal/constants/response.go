package constants

// Standard Response Field Keys
const (
	ResponseFieldData    = "data"
	ResponseFieldMessage = "message"
	ResponseFieldDetails = "details"
	ResponseFieldError   = "error"
	ResponseFieldSuccess = "success"
)

func BuildErrorResponse(message string, details any) map[string]any {
	response := map[string]any{
		ResponseFieldSuccess: false,
		ResponseFieldMessage: message,
	}

	if details != nil {
		response[ResponseFieldDetails] = details
	}

	return response
}

func BuildSuccessResponse(message string) map[string]any {
	return map[string]any{
		ResponseFieldSuccess: true,
		ResponseFieldMessage: message,
	}
}
