package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"al.essio.dev/pkg/shellescape"
)

// writeCurl prints the request as a curl invocation. File parts reference their
// filename, so the command runs from the directory holding the uploads.
func writeCurl(w io.Writer, view requestView) error {
	args := []string{"curl", "-X", view.Method, shellescape.Quote(view.URL)}

	for _, h := range view.Headers {
		args = append(args, "-H", shellescape.Quote(h.Name+": "+h.Value))
	}

	if view.timeoutSeconds > 0 {
		args = append(args, "--max-time", strconv.FormatFloat(view.timeoutSeconds, 'f', -1, 64))
	}

	if view.JSON != nil {
		data, err := json.Marshal(view.JSON)
		if err != nil {
			return fmt.Errorf("marshaling JSON body: %w", err)
		}
		args = append(args, "-H", shellescape.Quote("Content-Type: application/json"), "--data-raw", shellescape.Quote(string(data)))
	}

	for _, p := range view.Parts {
		if p.Filename == "" {
			args = append(args, "-F", shellescape.Quote(p.Name+"="+p.Value))
			continue
		}
		field := p.Name + "=@" + p.Filename
		if p.ContentType != "" {
			field += ";type=" + p.ContentType
		}
		args = append(args, "-F", shellescape.Quote(field))
	}

	_, err := fmt.Fprintln(w, strings.Join(args, " "))
	return err
}
