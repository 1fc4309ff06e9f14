package deontic

import (
	"crypto/sha256"
	"encoding/hex"
)

// AgentKind classifies the kind of party an Agent represents.
type AgentKind string

const (
	AgentPerson       AgentKind = "person"
	AgentOrganization AgentKind = "organization"
	AgentGovernment   AgentKind = "government"
	AgentRole         AgentKind = "role"
	AgentUnknown      AgentKind = "unknown"
)

// Agent is an immutable value type identifying a bearer or beneficiary
// of a deontic modality. Identifier is the stable join key used
// throughout Formula and the RAG Store's agent-match scoring; two
// Agents with equal Identifier are considered the same party
// regardless of differences in Name or Kind.
type Agent struct {
	Identifier  string
	DisplayName string
	Kind        AgentKind
}

// NewAgent constructs an Agent, defaulting an empty or unrecognized
// Kind to AgentUnknown rather than rejecting it — agent classification
// is advisory, not validated structural data.
func NewAgent(identifier, displayName string, kind AgentKind) Agent {
	if !kind.valid() {
		kind = AgentUnknown
	}
	return Agent{
		Identifier:  identifier,
		DisplayName: displayName,
		Kind:        kind,
	}
}

func (k AgentKind) valid() bool {
	switch k {
	case AgentPerson, AgentOrganization, AgentGovernment, AgentRole, AgentUnknown:
		return true
	default:
		return false
	}
}

// SameIdentity reports whether a and b are the same join-key identity.
// An empty Identifier never matches anything, including another empty
// Identifier, since an absent agent carries no identity to compare.
func (a Agent) SameIdentity(b Agent) bool {
	return a.Identifier != "" && a.Identifier == b.Identifier
}

// fingerprint returns a short, deterministic digest of the Agent's
// structural fields. Derived on demand rather than cached on the
// struct, keeping Agent a pure value type.
func (a Agent) fingerprint() string {
	sum := sha256.Sum256([]byte(string(a.Kind) + ":" + a.Identifier + ":" + a.DisplayName))
	return hex.EncodeToString(sum[:])[:8]
}
