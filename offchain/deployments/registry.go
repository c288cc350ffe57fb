// Package deployments reads the registry of known crowdfund program
// deployments, one record per cluster.
package deployments

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

var ErrNotFound = errors.New("deployment not found")

type Registry struct {
	SchemaVersion int          `json:"schema_version"`
	Deployments   []Deployment `json:"deployments"`
}

type Deployment struct {
	Name    string `json:"name"`
	Cluster string `json:"cluster,omitempty"`
	RPCURL  string `json:"rpc_url,omitempty"`

	ProgramID string `json:"program_id"`
}

func Load(path string) (Registry, error) {
	var out Registry
	path = strings.TrimSpace(path)
	if path == "" {
		return Registry{}, errors.New("path required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Registry{}, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return Registry{}, err
	}
	return out, nil
}

func (r Registry) FindByName(name string) (Deployment, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Deployment{}, errors.New("name required")
	}
	for _, d := range r.Deployments {
		if d.Name == name {
			if strings.TrimSpace(d.ProgramID) == "" {
				return Deployment{}, fmt.Errorf("deployment %s: missing program_id", name)
			}
			return d, nil
		}
	}
	return Deployment{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}
