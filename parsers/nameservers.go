package parsers

import (
	"net/netip"
	"strings"

	"whoisrecord/types"
)

// nameserver 解析 "NS1.EXAMPLE.COM 192.0.2.1 2001:db8::1" 这种单行格式
func nameserver(line string) types.Nameserver {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return types.Nameserver{}
	}
	ns := types.Nameserver{Name: strings.ToLower(strings.TrimSuffix(parts[0], "."))}
	for _, p := range parts[1:] {
		addr, err := netip.ParseAddr(p)
		if err != nil {
			continue
		}
		if addr.Is4() {
			ns.IPv4 = addr.String()
		} else {
			ns.IPv6 = addr.String()
		}
	}
	return ns
}

func nameservers(lines []string) []types.Nameserver {
	out := make([]types.Nameserver, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		ns := nameserver(line)
		if ns.Name == "" || seen[ns.Name] {
			continue
		}
		seen[ns.Name] = true
		out = append(out, ns)
	}
	return out
}
