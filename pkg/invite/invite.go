// Package invite implements the mechanics of accepting an Invite: granting
// read/write rights to a target resource, decrementing its usage counter,
// and building the Redirect resource the caller hands back to the client.
//
// spec.md §1 lists "the invite-redirect flow" among the HTTP-facing
// collaborators outside the store kernel's scope, but the mechanics
// themselves need nothing beyond the Storelike contract — so they live
// here, built atop core's public interface only. This package imports
// core; core never imports this package.
package invite

import (
	"fmt"

	"github.com/atomicdata-dev/atomic-go/core"
)

// AcceptParams carries the query parameters an HTTP layer parses from an
// invite-accept request: either an existing Agent URL, or a bare public
// key for which a new Agent resource should be minted.
type AcceptParams struct {
	PublicKey string
	Agent     string
}

// Accept applies invite's rights grant to its target and returns the
// Redirect resource the caller should persist and serve back to the
// client, grounded on
// original_source/lib/src/plugins/invite.rs's construct_invite_redirect.
// When params names neither a public key nor an agent, invite itself is
// returned unchanged and no rights are granted.
//
// subject is the URL the Redirect resource must carry — the front end
// requires the Redirect's @id to match the URL that was requested, not a
// freshly minted one.
func Accept(store core.Storelike, invite *core.Resource, subject string, params AcceptParams, clock core.Clock) (*core.Resource, error) {
	if params.PublicKey == "" && params.Agent == "" {
		return invite, nil
	}
	if params.PublicKey != "" && params.Agent != "" {
		return nil, fmt.Errorf("either a publicKey or an agent can be set, not both")
	}

	agentURL := params.Agent
	if params.PublicKey != "" {
		newAgent := core.AgentFromPublicKey("", store.GetBaseURL(), params.PublicKey, clock)
		if err := store.AddResourceUnsafe(newAgent.ToResource()); err != nil {
			return nil, err
		}
		// An accepted invite always grants the minted agent write access
		// to itself, mirroring the original's self-grant.
		if err := addRights(store, newAgent.Subject, newAgent.Subject, true); err != nil {
			return nil, err
		}
		agentURL = newAgent.Subject
	}

	write := false
	if v, err := invite.Get(core.PropInviteWrite); err == nil {
		write, _ = v.Bool()
	}

	target, err := invite.Get(core.PropInviteTarget)
	if err != nil {
		return nil, fmt.Errorf("invite %s has no target: %w", invite.Subject(), err)
	}

	if usagesLeftVal, err := invite.Get(core.PropUsagesLeft); err == nil {
		usagesLeft, err := usagesLeftVal.Int()
		if err != nil {
			return nil, err
		}
		if usagesLeft == 0 {
			return nil, fmt.Errorf("no usages left for invite %s", invite.Subject())
		}
		invite.SetPropval(core.PropUsagesLeft, core.NewIntegerValue(usagesLeft-1))
		if err := store.AddResource(invite); err != nil {
			return nil, fmt.Errorf("unable to save updated invite: %w", err)
		}
	}

	if err := addRights(store, agentURL, target.String(), write); err != nil {
		return nil, err
	}

	redirect := core.NewResource(subject)
	redirect.SetPropval(core.PropIsA, core.NewResourceArrayValue([]string{core.ClassRedirect}))
	redirect.SetPropval(core.PropDestination, target)
	redirect.SetPropval(core.PropRedirectAgent, core.NewAtomicURLValue(agentURL))
	return redirect, nil
}

// addRights grants agent read (or write) access to target, appending to
// whichever rights list is already present without duplicating an entry.
func addRights(store core.Storelike, agent, target string, write bool) error {
	targetResource, err := store.GetResource(target)
	if err != nil {
		return err
	}

	right := core.PropRead
	if write {
		right = core.PropWrite
	}

	var rights []string
	if v, err := targetResource.Get(right); err == nil {
		rights, err = v.ResourceArray()
		if err != nil {
			return fmt.Errorf("invalid value for rights on %s: %w", target, err)
		}
		for _, existing := range rights {
			if existing == agent {
				return nil
			}
		}
	}
	rights = append(rights, agent)
	targetResource.SetPropval(right, core.NewResourceArrayValue(rights))
	if err := store.AddResource(targetResource); err != nil {
		return fmt.Errorf("unable to save updated target resource: %w", err)
	}
	return nil
}
