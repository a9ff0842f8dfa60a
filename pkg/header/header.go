// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package header

// Kind represents the type of document emitted by the recipe tooling.
type Kind string

// Valid Kind constants for all emitted documents.
const (
	KindRecipe       Kind = "Recipe"
	KindResolution   Kind = "Resolution"
	KindBuildPlan    Kind = "BuildPlan"
	KindManifest     Kind = "PackageManifest"
	KindConsumerInfo Kind = "ConsumerInfo"
	KindPublish      Kind = "PublishResult"
	KindCatalog      Kind = "RecipeCatalog"
)

// APIVersion is the schema version stamped on every emitted document.
const APIVersion = "sisl.pkg/v1"

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid checks if the Kind is one of the recognized kinds.
func (k *Kind) IsValid() bool {
	switch *k {
	case KindRecipe, KindResolution, KindBuildPlan, KindManifest, KindConsumerInfo, KindPublish, KindCatalog:
		return true
	default:
		return false
	}
}

// Header contains metadata and versioning information for emitted documents.
// It follows Kubernetes-style resource conventions with Kind, APIVersion, and Metadata fields.
type Header struct {
	// Kind is the type of the document.
	Kind Kind `json:"kind,omitempty" yaml:"kind,omitempty"`

	// APIVersion is the API version of the document.
	APIVersion string `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`

	// Metadata contains key-value pairs such as the invocation ID and tool version.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Init initializes the Header with the specified kind and tool version.
// Metadata carries the tool version and, when set, the invocation ID.
// No timestamp is recorded so that equal inputs yield byte-identical documents.
func (h *Header) Init(kind Kind, version, invocation string) {
	h.Kind = kind
	h.APIVersion = APIVersion
	h.Metadata = make(map[string]string)

	if version != "" {
		h.Metadata[MetadataVersion] = version
	}
	if invocation != "" {
		h.Metadata[MetadataInvocation] = invocation
	}
}

// Metadata keys written by Init.
const (
	MetadataVersion    = "version"
	MetadataInvocation = "invocation"
)
