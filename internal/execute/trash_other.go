//go:build !unix && !windows

package execute

func isCrossDevice(error) bool {
	return false
}
