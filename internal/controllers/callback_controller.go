package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CallbackController serves the static landing page that first-party clients
// register as their redirect URI. The page never talks to the server: it
// relays the code and state from the query string to the opener via
// window.postMessage and closes itself.
type CallbackController struct{}

func NewCallbackController() *CallbackController {
	return &CallbackController{}
}

// CallbackPage handles GET /oauth/extension-callback and
// GET /oauth/web-callback.
func (cc *CallbackController) CallbackPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(callbackPage))
}

const callbackPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>OAuth Callback</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
           display: flex; justify-content: center; align-items: center; height: 100vh; margin: 0; }
    .container { text-align: center; max-width: 400px; }
    .success { color: #10b981; }
    .error { color: #ef4444; }
  </style>
</head>
<body>
  <div class="container">
    <h1 id="title">Processing OAuth Callback...</h1>
    <p id="message">Please wait while we complete the authorization.</p>
  </div>
  <script>
    (function() {
      var params = new URLSearchParams(window.location.search);
      var code = params.get('code');
      var state = params.get('state');
      var error = params.get('error');
      var titleEl = document.getElementById('title');
      var messageEl = document.getElementById('message');

      if (error || !code || !state) {
        titleEl.textContent = 'Authorization Failed';
        titleEl.className = 'error';
        messageEl.textContent = error || 'Missing required parameters (code or state).';
        window.postMessage({
          type: 'oauth-callback-error',
          error: error || 'invalid_request'
        }, '*');
        setTimeout(function() { window.close(); }, 3000);
        return;
      }

      window.postMessage({
        type: 'oauth-callback-success',
        code: code,
        state: state
      }, '*');

      titleEl.textContent = 'Authorization Successful!';
      titleEl.className = 'success';
      messageEl.textContent = 'You can close this window now.';
      setTimeout(function() { window.close(); }, 2000);
    })();
  </script>
</body>
</html>
`
