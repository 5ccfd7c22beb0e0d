package curl

const (
	cmdCurl = "curl"
	cmdSudo = "sudo"
	cmdEnv  = "env"
)

var promptPrefixes = []string{"$", "%", ">", "!"}

const (
	headerAuthorization = "Authorization"
	bearerPrefix        = "Bearer "
	urlQuoteChars       = "\"'"
)
