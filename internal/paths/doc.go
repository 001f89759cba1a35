// Package paths resolves the well-known file system locations dataguard
// uses: the config file, the local snapshot root, and the small state
// files (export-root grant, role host, cloud session). Locations follow
// the XDG base directory specification via github.com/adrg/xdg.
package paths
