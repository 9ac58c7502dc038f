//go:build !evalmaxplane

package surfnets

// evalMaxPlane relaxes the positive-boundary guard of quad emission so that
// faces are also generated on a chunk's maximal planes. Meshing two adjacent
// chunks with the tag enabled duplicates the faces on their shared plane.
const evalMaxPlane = false
