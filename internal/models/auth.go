package models

import (
	"strconv"
	"strings"
)

// Seconds tolerates the upstream habit of returning expires_in as either a
// JSON number or a quoted string.
type Seconds int

func (s *Seconds) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*s = 0
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return err
	}
	*s = Seconds(n)
	return nil
}

type TokenResponse struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type,omitempty"`
	ExpiresIn   Seconds `json:"expires_in"`
}
