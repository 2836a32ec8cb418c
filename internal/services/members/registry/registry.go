// Package registry loads the member registry file.
//
// The file is the single authority on who the members are and which
// source-local handles belong to them. Loading canonicalizes every handle and
// email, derives stable ids for unpinned members, and refuses files where two
// members claim the same identifier
package registry

import (
	"io"
	"os"
	"sort"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"teampulse/internal/core/canon"
	perr "teampulse/internal/platform/errors"
	"teampulse/internal/services/members/domain"
)

// idNamespace seeds name-based uuids so a rebuild reproduces the same ids
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("teampulse://members"))

// Registry is the loaded, validated, canonical form of the file
type Registry struct {
	Members     []domain.Member
	Identifiers []domain.Identifier
}

type fileDoc struct {
	Members []fileMember `yaml:"members"`
}

type fileMember struct {
	Name        string              `yaml:"name"`
	ID          string              `yaml:"id"`
	Email       string              `yaml:"email"`
	Identifiers map[string][]string `yaml:"identifiers"`
}

// Load reads and validates the registry file at path
func Load(path string) (Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return Registry{}, perr.Configf("registry: open %s: %v", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads and validates a registry document
func Parse(r io.Reader) (Registry, error) {
	var doc fileDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return Registry{}, perr.Configf("registry: parse: %v", err)
	}
	if len(doc.Members) == 0 {
		return Registry{}, perr.Configf("registry: no members")
	}

	var reg Registry
	seenIDs := make(map[string]string)    // member uuid -> name
	seenEmails := make(map[string]string) // canonical email -> name
	claims := make(map[string]string)     // source\x00local -> name

	for i, fm := range doc.Members {
		name := canon.Trim(fm.Name)
		if name == "" {
			return Registry{}, perr.Configf("registry: member %d: missing name", i)
		}

		email := canon.Email(fm.Email)
		if fm.Email != "" && email == "" {
			return Registry{}, perr.Configf("registry: %s: bad email %q", name, fm.Email)
		}
		if email != "" {
			if other, dup := seenEmails[email]; dup {
				return Registry{}, perr.Configf("registry: %s and %s share email %s", other, name, email)
			}
			seenEmails[email] = name
		}

		id, err := memberID(fm.ID, name, email)
		if err != nil {
			return Registry{}, perr.Configf("registry: %s: %v", name, err)
		}
		if other, dup := seenIDs[id]; dup {
			return Registry{}, perr.Configf("registry: %s and %s share id %s", other, name, id)
		}
		seenIDs[id] = name

		reg.Members = append(reg.Members, domain.Member{ID: id, DisplayName: name, Email: email})

		for source, locals := range fm.Identifiers {
			source = canon.Key(source)
			if source == "" {
				return Registry{}, perr.Configf("registry: %s: empty source tag", name)
			}
			for _, l := range locals {
				local := canon.Key(l)
				if local == "" {
					return Registry{}, perr.Configf("registry: %s: empty %s identifier %q", name, source, l)
				}
				k := source + "\x00" + local
				if other, dup := claims[k]; dup {
					return Registry{}, perr.Configf(
						"registry: %s and %s both claim %s/%s", other, name, source, local)
				}
				claims[k] = name
				reg.Identifiers = append(reg.Identifiers, domain.Identifier{
					Source:   source,
					LocalID:  local,
					MemberID: id,
				})
			}
		}
	}

	// map iteration above makes identifier order random; pin it
	sort.Slice(reg.Identifiers, func(i, j int) bool {
		a, b := reg.Identifiers[i], reg.Identifiers[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		return a.LocalID < b.LocalID
	})

	return reg, nil
}

// memberID returns the pinned id normalized, or derives one from the member
// key. Email is the preferred key since display names get retyped
func memberID(pinned, name, email string) (string, error) {
	if pinned != "" {
		u, err := uuid.Parse(pinned)
		if err != nil {
			return "", perr.Configf("bad pinned id %q", pinned)
		}
		return u.String(), nil
	}
	seed := email
	if seed == "" {
		seed = canon.Key(name)
	}
	return uuid.NewSHA1(idNamespace, []byte(seed)).String(), nil
}
