package validation

func CustomMessage(field string) map[string]string {
	var customValidationMessages = map[string]map[string]string{
		"Email": {
			"required": "email must not be empty",
			"email":    "email is not a valid address",
		},
		"Password": {
			"required": "password must not be empty",
			"min":      "password must be at least 8 characters",
			"password": "password must contain uppercase, lowercase, and numbers",
		},
		"NewPassword": {
			"min":      "new password must be at least 8 characters",
			"password": "new password must contain uppercase, lowercase, and numbers",
		},
		"FullName": {
			"required": "full name must not be empty",
		},
		"URL": {
			"required": "url must not be empty",
		},
		"Domain": {
			"required": "domain must not be empty",
		},
		"Token": {
			"required": "device token must not be empty",
		},
		"TrustedUserEmail": {
			"required": "trusted user email must not be empty",
			"email":    "trusted user email is not a valid address",
		},
	}
	return customValidationMessages[field]
}
