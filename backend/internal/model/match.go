package model

// PeerMatch is a suggested user ranked by tech-stack overlap.
type PeerMatch struct {
	User        PublicProfile `json:"user"`
	CommonTechs []string      `json:"commonTechs"`
	MatchCount  int           `json:"matchCount"`
}
