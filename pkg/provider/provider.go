// Package provider defines the mesh-provider collaborator: the source
// of the mesh being sliced, abstracted away from the host's object
// representation.
package provider

import "github.com/chazu/chunkslicer/pkg/mesh"

// Provider supplies the source mesh for one slice invocation.
type Provider interface {
	SourceMesh() (*mesh.Mesh, error)
}
