// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Setting keys read from the site_settings table.
const (
	// SiteNameKey holds the site display name used to attribute
	// site-authored templates.
	SiteNameKey = "site_name"
)
