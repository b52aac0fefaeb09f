// Package common holds small rendering helpers shared by the list host.
package common

import (
	"strings"

	"charm.land/bubbles/v2/key"

	"github.com/miosa/osa-vlist/style"
)

// KeyHelp renders a help line for the status bar. Each binding is rendered
// as:
//
//	key description
//
// Disabled bindings are omitted.
func KeyHelp(bindings ...key.Binding) string {
	var parts []string
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		parts = append(parts, style.HelpKey.Render(h.Key)+style.HelpDesc.Render(" "+h.Desc))
	}
	return strings.Join(parts, style.HelpSeparator.Render(" · "))
}
