package googleauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cinepoll/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Receiver runs a one-shot loopback listener that collects the Google
// credential postback for the terminal sign-in flow. It serves the Google
// Identity Services button on / and accepts the credential on /callback.
type Receiver struct {
	clientID string
	port     string
	log      *logger.Logger
}

func NewReceiver(clientID, port string, log *logger.Logger) *Receiver {
	return &Receiver{clientID: clientID, port: port, log: log}
}

const signInPage = `<!DOCTYPE html>
<html>
<head>
  <script src="https://accounts.google.com/gsi/client" async defer></script>
</head>
<body>
  <div id="g_id_onload"
       data-client_id="%s"
       data-login_uri="http://127.0.0.1:%s/callback"
       data-auto_prompt="false"></div>
  <div class="g_id_signin" data-type="standard"></div>
</body>
</html>`

// Listen serves the sign-in page and blocks until one credential arrives or
// the context is done. The listener shuts down after the first credential.
func (r *Receiver) Listen(ctx context.Context) (Profile, error) {
	if r.clientID == "" {
		return Profile{}, errors.New("google client id not configured")
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	credentials := make(chan string, 1)

	engine.GET("/", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, fmt.Sprintf(signInPage, r.clientID, r.port))
	})
	engine.POST("/callback", func(c *gin.Context) {
		credential := c.PostForm("credential")
		if credential == "" {
			c.String(http.StatusBadRequest, "missing credential")
			return
		}
		select {
		case credentials <- credential:
		default:
		}
		c.String(http.StatusOK, "Signed in. You can close this tab.")
	})

	server := &http.Server{
		Addr:    "127.0.0.1:" + r.port,
		Handler: engine,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()
	r.log.Infof("waiting for Google sign-in at http://127.0.0.1:%s/", r.port)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	select {
	case credential := <-credentials:
		return DecodeProfile(credential)
	case err := <-serveErr:
		return Profile{}, err
	case <-ctx.Done():
		return Profile{}, ctx.Err()
	}
}
