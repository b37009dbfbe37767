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

import "testing"

func TestSubscriptionStatusValid(t *testing.T) {
	for _, status := range []SubscriptionStatus{SubscriptionIncomplete, SubscriptionIncompleteExpired,
		SubscriptionTrialing, SubscriptionActive, SubscriptionPastDue, SubscriptionCanceled, SubscriptionUnpaid} {
		if !status.Valid() {
			t.Errorf("%s must be valid", status)
		}
	}
	if SubscriptionStatus("bogus").Valid() {
		t.Error("unknown status must be invalid")
	}
	if SubscriptionStatus("").Valid() {
		t.Error("empty status must be invalid")
	}
}

func TestSubscriptionStatusEntitled(t *testing.T) {
	if !SubscriptionActive.Entitled() || !SubscriptionTrialing.Entitled() {
		t.Error("active and trialing entitle access")
	}
	for _, status := range []SubscriptionStatus{SubscriptionIncomplete, SubscriptionIncompleteExpired,
		SubscriptionPastDue, SubscriptionCanceled, SubscriptionUnpaid} {
		if status.Entitled() {
			t.Errorf("%s must not entitle access", status)
		}
	}
}
