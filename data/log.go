// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package data

import "github.com/rs/zerolog"

func (m *Metadata) MarshalZerologObject(e *zerolog.Event) {
	e.Str("RunID", m.RunID.String()).
		Str("Hash", m.Hash).
		Int("Rows", m.Rows).
		Time("Start", m.Start).
		Time("End", m.End).
		Int("MissingBefore", m.MissingBefore).
		Int("OutliersCleaned", m.OutliersCleaned)
}
