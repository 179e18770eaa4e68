package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes all possible top-level blocks from any file.
type fileRoot struct {
	Toolchain   *toolchainBlock    `hcl:"toolchain,block"`
	Executables []*executableBlock `hcl:"executable,block"`
	Output      *outputBlock       `hcl:"output,block"`
	Run         *bodyBlock         `hcl:"run,block"`
	Publish     *bodyBlock         `hcl:"publish,block"`
	Remain      hcl.Body           `hcl:",remain"`
}

type toolchainBlock struct {
	Compiler string   `hcl:"compiler,optional"`
	Flags    []string `hcl:"flags,optional"`
}

type executableBlock struct {
	Kind      string   `hcl:"kind,label"`
	Source    string   `hcl:"source"`
	LinkFlags []string `hcl:"link_flags,optional"`
}

type outputBlock struct {
	Dir string `hcl:"dir"`
}

// bodyBlock keeps a block's attributes unevaluated so they can be bound
// field by field with defaults.
type bodyBlock struct {
	Body hcl.Body `hcl:",remain"`
}
