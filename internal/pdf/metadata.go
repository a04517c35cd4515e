package pdf

import (
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractMetadata reads the document information dictionary. The
// ledongthuc Value API panics on some malformed trailers, so the whole
// walk runs behind a recover and degrades to an empty Metadata.
func extractMetadata(r *pdf.Reader) Metadata {
	var meta Metadata

	defer func() {
		if recover() != nil {
			// Keep whatever fields were filled before the failure.
		}
	}()

	trailer := r.Trailer()
	if trailer.IsNull() {
		return meta
	}
	info := trailer.Key("Info")
	if info.IsNull() {
		return meta
	}

	meta.Title = infoString(info, "Title")
	meta.Author = infoString(info, "Author")
	meta.Subject = infoString(info, "Subject")
	meta.Creator = infoString(info, "Creator")
	meta.Producer = infoString(info, "Producer")
	meta.CreationDate = infoString(info, "CreationDate")
	meta.ModifiedDate = infoString(info, "ModDate")

	return meta
}

func infoString(info pdf.Value, key string) string {
	v := info.Key(key)
	if v.IsNull() {
		return ""
	}
	return strings.TrimSpace(v.String())
}
