//go:build !linux

package metrics

func dmiProduct() (string, string) {
	return "", ""
}
