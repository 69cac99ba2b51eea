package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	nmap "github.com/Ullaakut/nmap/v3"

	"adaptkit/internal/domain"
)

const (
	// KindNmapHost is a live host found in an nmap report
	KindNmapHost domain.ElementKind = "nmap.host"
	// KindNmapService is an open port with its detected service
	KindNmapService domain.ElementKind = "nmap.service"
)

// HostElement is a host reported up by nmap
type HostElement struct {
	Addr     string
	Hostname string
}

// Kind implements domain.Element
func (e HostElement) Kind() domain.ElementKind { return KindNmapHost }

// Text implements domain.Element
func (e HostElement) Text() string {
	if e.Hostname == "" {
		return e.Addr
	}
	return fmt.Sprintf("%s (%s)", e.Addr, e.Hostname)
}

// ServiceElement is an open port on a host
type ServiceElement struct {
	Addr     string
	Port     uint16
	Protocol string
	Service  string
	Banner   string
}

// Kind implements domain.Element
func (e ServiceElement) Kind() domain.ElementKind { return KindNmapService }

// Text implements domain.Element
func (e ServiceElement) Text() string {
	text := fmt.Sprintf("%s:%d/%s", e.Addr, e.Port, e.Protocol)
	if e.Service != "" {
		text += " " + e.Service
	}
	if e.Banner != "" {
		text += " " + e.Banner
	}
	return text
}

// NmapAdapter extracts hosts and open services from nmap XML reports (nmap -oX)
type NmapAdapter struct {
	src *SourceReader
}

// NmapRegistration returns the registration for the nmap report adapter
func NmapRegistration(src *SourceReader) Registration {
	return Registration{
		Descriptor: Descriptor{
			ID:    "nmap",
			Name:  "Nmap Scan Report",
			Icon:  "icons/nmap.png",
			Kinds: []domain.ElementKind{KindNmapHost, KindNmapService},
		},
		Factory: func(map[string]any) (Adapter, error) {
			return &NmapAdapter{src: src}, nil
		},
	}
}

// ID implements Adapter
func (n *NmapAdapter) ID() string { return "nmap" }

// IsApplicable implements Adapter
func (n *NmapAdapter) IsApplicable(uri *url.URL) bool {
	if Ext(uri) != ".xml" {
		return false
	}
	return n.src.Sniff(uri, "<nmaprun", 4096)
}

// Extract implements Adapter
func (n *NmapAdapter) Extract(_ context.Context, uri *url.URL) ([]domain.Element, error) {
	if !n.IsApplicable(uri) {
		return nil, nil
	}
	data, err := n.src.Read(uri)
	if err != nil {
		return nil, err
	}
	result := &nmap.Run{}
	if err := nmap.Parse(data, result); err != nil {
		return nil, fmt.Errorf("parse nmap report: %w", err)
	}
	return n.processResults(result)
}

// processResults converts scan results to elements, host first then its open ports
func (n *NmapAdapter) processResults(result *nmap.Run) ([]domain.Element, error) {
	if result == nil {
		return nil, fmt.Errorf("nil scan result")
	}

	var elements []domain.Element
	for _, host := range result.Hosts {
		if len(host.Addresses) == 0 {
			continue
		}
		if host.Status.State != "up" {
			continue
		}

		ip := primaryAddress(host)
		h := HostElement{Addr: ip}
		if len(host.Hostnames) > 0 {
			h.Hostname = host.Hostnames[0].Name
		}
		elements = append(elements, h)

		for _, port := range host.Ports {
			if port.State.State != "open" {
				continue
			}
			elements = append(elements, ServiceElement{
				Addr:     ip,
				Port:     port.ID,
				Protocol: port.Protocol,
				Service:  port.Service.Name,
				Banner:   banner(port.Service),
			})
		}
	}
	return elements, nil
}

// primaryAddress prefers the IPv4 address, falling back to the first one
func primaryAddress(host nmap.Host) string {
	for _, addr := range host.Addresses {
		if addr.AddrType == "ipv4" {
			return addr.Addr
		}
	}
	return host.Addresses[0].Addr
}

func banner(svc nmap.Service) string {
	parts := make([]string, 0, 3)
	if svc.Product != "" {
		parts = append(parts, svc.Product)
	}
	if svc.Version != "" {
		parts = append(parts, svc.Version)
	}
	if svc.ExtraInfo != "" {
		parts = append(parts, "("+svc.ExtraInfo+")")
	}
	return strings.Join(parts, " ")
}
