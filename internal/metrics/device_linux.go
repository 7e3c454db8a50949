//go:build linux

package metrics

import "github.com/zcalusic/sysinfo"

// dmiProduct reads the product vendor and name from DMI
func dmiProduct() (string, string) {
	var si sysinfo.SysInfo
	si.GetSysInfo()
	return si.Product.Vendor, si.Product.Name
}
