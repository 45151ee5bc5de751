package web

import "net/http"

// landingPage is a static status page served at the root, confirming the
// service is up and pointing at the API.
const landingPage = `<!DOCTYPE html>
<html>
  <head>
    <title>CSV Analysis API</title>
    <style>
      body {
        margin: 0;
        height: 100vh;
        display: flex;
        align-items: center;
        justify-content: center;
        background: #0f172a;
        color: #e5e7eb;
        font-family: Arial, Helvetica, sans-serif;
      }
      .card {
        padding: 32px 40px;
        border-radius: 12px;
        background: #020617;
        box-shadow: 0 20px 40px rgba(0,0,0,0.6);
        text-align: center;
      }
      h1 { margin: 0 0 12px; font-size: 28px; color: #38bdf8; }
      p { margin: 6px 0; font-size: 14px; opacity: 0.9; }
      .status { color: #4ade80; }
      code { color: #fbbf24; }
    </style>
  </head>
  <body>
    <div class="card">
      <h1>CSV Analysis API</h1>
      <p class="status">Status: Running</p>
      <p>POST CSV text to <code>/api/analysis/ingestCsv</code></p>
    </div>
  </body>
</html>
`

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(landingPage))
}
