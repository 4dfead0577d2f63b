package hclconfig

import "github.com/hashicorp/hcl/v2"

// fileRoot is the top-level shape of a command document.
type fileRoot struct {
	ServerURI *string         `hcl:"server_uri,optional"`
	Commands  []*commandBlock `hcl:"command,block"`
}

type commandBlock struct {
	Type       string             `hcl:"type,label"`
	Alias      *string            `hcl:"alias,optional"`
	Properties []*propertiesBlock `hcl:"properties,block"`
	Remain     hcl.Body           `hcl:",remain"`
}

type propertiesBlock struct {
	Type string   `hcl:"type,label"`
	Body hcl.Body `hcl:",remain"`
}
