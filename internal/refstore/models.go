package refstore

import "encoding/json"

// Name is one locale-tagged naming of an identity; every field is optional.
type Name struct {
	Ja     *string `json:"ja"`
	JaKana *string `json:"jaKana"`
	En     *string `json:"en"`
}

// IdentityRecord is one line of the metadata file. Fanza is an opaque
// attachment passed through to responses untouched.
type IdentityRecord struct {
	Names []Name          `json:"names"`
	Fanza json.RawMessage `json:"fanza,omitempty"`
}
