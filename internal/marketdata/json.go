package marketdata

import (
	"encoding/json"
	"io"
)

func decodeJSON(r io.Reader, dest any) error {
	return json.NewDecoder(r).Decode(dest)
}
