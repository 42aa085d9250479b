package google

// OAuthScopes are the Google OAuth scopes mailpilot requires.
//
// The scopes provide access to:
//   - Gmail: read and modify messages and labels
//   - Gmail: send mail
//   - Gmail settings: filter management
var OAuthScopes = []string{
	"https://www.googleapis.com/auth/gmail.modify",
	"https://www.googleapis.com/auth/gmail.send",
	"https://www.googleapis.com/auth/gmail.settings.basic",
}
