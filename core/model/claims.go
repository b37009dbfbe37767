// Copyright 2022 Board of Trustees of the University of Illinois.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import (
	"sort"

	"github.com/rokwire/logging-library-go/v2/logutils"
)

const (
	//TypeClaims authorization claims type
	TypeClaims logutils.MessageDataType = "claims"
)

// LocationClaim is the per-location slice of a user's authorization claims
type LocationClaim struct {
	Role      LocationRole
	Positions []string
}

// Claims is the compact authorization payload cached on a user's session. It is
// derived from employee/location state and never the source of truth - always
// recomputed, compared by value and only written when it actually changed.
type Claims struct {
	OrgID string
	Role  EmployeeRole

	LocKeys map[string]LocationClaim
}

// Equals compares claims by value. Position order is irrelevant.
func (c *Claims) Equals(other *Claims) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.OrgID != other.OrgID || c.Role != other.Role {
		return false
	}
	if len(c.LocKeys) != len(other.LocKeys) {
		return false
	}
	for locID, lc := range c.LocKeys {
		oc, ok := other.LocKeys[locID]
		if !ok || lc.Role != oc.Role {
			return false
		}
		if !samePositions(lc.Positions, oc.Positions) {
			return false
		}
	}
	return true
}

func samePositions(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// ToMap encodes the claims for the auth provider's custom-claims payload
func (c *Claims) ToMap() map[string]interface{} {
	if c == nil {
		return nil
	}
	locKeys := make(map[string]interface{}, len(c.LocKeys))
	for locID, lc := range c.LocKeys {
		positions := make([]interface{}, len(lc.Positions))
		for i, p := range lc.Positions {
			positions[i] = p
		}
		locKeys[locID] = map[string]interface{}{"role": string(lc.Role), "pos": positions}
	}
	return map[string]interface{}{"org_id": c.OrgID, "role": string(c.Role), "loc_keys": locKeys}
}

// ClaimsFromMap decodes a custom-claims payload. A payload without an org_id is
// treated as no claims.
func ClaimsFromMap(data map[string]interface{}) *Claims {
	if data == nil {
		return nil
	}
	orgID, ok := data["org_id"].(string)
	if !ok || orgID == "" {
		return nil
	}
	role, _ := data["role"].(string)
	claims := Claims{OrgID: orgID, Role: EmployeeRole(role), LocKeys: map[string]LocationClaim{}}

	rawLocKeys, _ := data["loc_keys"].(map[string]interface{})
	for locID, raw := range rawLocKeys {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		locRole, _ := entry["role"].(string)
		var positions []string
		if rawPositions, ok := entry["pos"].([]interface{}); ok {
			for _, rp := range rawPositions {
				if p, ok := rp.(string); ok {
					positions = append(positions, p)
				}
			}
		}
		claims.LocKeys[locID] = LocationClaim{Role: LocationRole(locRole), Positions: positions}
	}
	return &claims
}
