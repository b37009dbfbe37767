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

package utils

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"

	"github.com/rokwire/logging-library-go/v2/errors"
)

// SetRandomSeed seeds the math/rand generator from a cryptographically random source
func SetRandomSeed() error {
	seed := make([]byte, 8)
	_, err := crand.Read(seed)
	if err != nil {
		return errors.Wrap("error seeding random", err)
	}

	rand.Seed(int64(binary.LittleEndian.Uint64(seed)))
	return nil
}
