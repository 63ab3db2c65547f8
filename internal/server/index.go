package server

import (
	"html/template"
	"net/http"
)

var indexTmpl = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>Voice Sentiment Analyzer</title></head>
<body>
<h1>Voice Sentiment Analyzer</h1>

<h2>Record Your Voice</h2>
<form method="post" action="/record">
  <input type="number" name="seconds" min="1" value="{{.Seconds}}">
  <button type="submit">Start Recording</button>
</form>
<p>Records from the server's microphone.</p>

<h2>Upload Your Audio File</h2>
<form method="post" action="/upload" enctype="multipart/form-data">
  <input type="file" name="file" accept=".wav">
  <button type="submit">Analyze</button>
</form>
<p>Upload a pre-recorded WAV file.</p>
</body>
</html>
`))

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct{ Seconds int }{Seconds: int(h.recordDuration.Seconds())}
	if err := indexTmpl.Execute(w, data); err != nil {
		h.log.WithRequest(r).WithField("error", err.Error()).Error("render index")
	}
}
