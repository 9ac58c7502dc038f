//go:build evalmaxplane

package surfnets

const evalMaxPlane = true
