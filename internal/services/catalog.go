// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package services

import (
	"sort"

	"github.com/personalwings/wings-admin/internal/apiclient"
)

// Endpoint is a resource collection and the envelope depth its payloads
// are nested at.
type Endpoint struct {
	Name  string
	Path  string
	Depth int
}

// Catalog lists the admin resources and CMS sections.
var Catalog = []Endpoint{
	{Name: "courses", Path: "/courses", Depth: apiclient.DepthData},
	{Name: "products", Path: "/products", Depth: apiclient.DepthData},
	{Name: "categories", Path: "/categories", Depth: apiclient.DepthNested},
	{Name: "header-nav", Path: "/cms/header-nav", Depth: apiclient.DepthNested},
	{Name: "top-bar", Path: "/cms/top-bar", Depth: apiclient.DepthNested},
	{Name: "footer", Path: "/cms/footer", Depth: apiclient.DepthNested},
	{Name: "faqs", Path: "/cms/faqs", Depth: apiclient.DepthNested},
	{Name: "privacy-policy", Path: "/cms/privacy-policy", Depth: apiclient.DepthNested},
	{Name: "refund-policy", Path: "/cms/refund-policy", Depth: apiclient.DepthNested},
	{Name: "terms-and-conditions", Path: "/cms/terms-and-conditions", Depth: apiclient.DepthNested},
}

// LookupEndpoint finds a catalog entry by name.
func LookupEndpoint(name string) (Endpoint, bool) {
	for _, ep := range Catalog {
		if ep.Name == name {
			return ep, true
		}
	}
	return Endpoint{}, false
}

// EndpointNames returns the catalog names in sorted order.
func EndpointNames() []string {
	names := make([]string, 0, len(Catalog))
	for _, ep := range Catalog {
		names = append(names, ep.Name)
	}
	sort.Strings(names)
	return names
}
