// Package buildinfo holds values stamped in at link time:
//
//	go build -ldflags "-X github.com/darmiel/tokenkeep/internal/buildinfo.Version=v0.2.0"
package buildinfo

import (
	"fmt"
	"runtime"
)

var (
	Version    = "dev"
	CommitHash = "unknown"
)

const (
	ServiceName = "tokenkeep"
	Repository  = "https://github.com/darmiel/tokenkeep"
)

type Info struct {
	About      string `json:"about,omitempty"`
	Service    string `json:"service,omitempty"`
	Version    string `json:"version,omitempty"`
	CommitHash string `json:"commit_hash,omitempty"`
	GoVersion  string `json:"go_version,omitempty"`
}

func GetBuildInfo() Info {
	return Info{
		About:      Repository,
		Service:    ServiceName,
		Version:    Version,
		CommitHash: CommitHash,
		GoVersion:  runtime.Version(),
	}
}

func (i Info) String() string {
	return fmt.Sprintf("%s %s (commit %s, %s)", i.Service, i.Version, i.CommitHash, i.GoVersion)
}
