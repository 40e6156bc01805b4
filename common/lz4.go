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

package common

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// LZ4Extension is the file extension of lz4 frame compressed files
const LZ4Extension = ".lz4"

// IsLZ4 reports whether path names an lz4 compressed file
func IsLZ4(path string) bool {
	return strings.EqualFold(filepath.Ext(path), LZ4Extension)
}

// Decompress decodes a buffer of lz4 frames such as written by the lz4
// command line tool
func Decompress(in []byte) ([]byte, error) {
	w := &bytes.Buffer{}
	zr := lz4.NewReader(bytes.NewReader(in))
	if _, err := io.Copy(w, zr); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}
