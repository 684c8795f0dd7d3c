package main

// BridgeInfo describes the bridge to the frontend.
type BridgeInfo struct {
	Channel           string `json:"channel"`
	InboxDir          string `json:"inboxDir"`
	ProviderAuthority string `json:"providerAuthority"`
	ProviderRoot      string `json:"providerRoot"`
	Version           string `json:"version"`
}

type FileAssociationStatus struct {
	Exists     bool            `json:"exists"`
	Extensions map[string]bool `json:"extensions"`
}
