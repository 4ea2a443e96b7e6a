// Package palette maps go-theme manifests onto the colors used by the visa
// checker: chart bucket colors plus page CSS variables.
package palette
