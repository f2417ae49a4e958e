package capability

import (
	"fmt"
	"slices"
	"sync"
)

// Tool names in the shipped catalog.
const (
	ToolTriggerEffect     = "trigger_effect"
	ToolPuzzleSolved      = "puzzle_solved"
	ToolGrantReward       = "grant_reward"
	ToolQueryPlayer       = "query_player"
	ToolAssignIdentity    = "assign_identity"
	ToolWorldCreateRoom   = "world_create_room"
	ToolWorldCreateObject = "world_create_object"
	ToolWorldCreatePuzzle = "world_create_puzzle"
	ToolWorldModifyState  = "world_modify_state"

	ToolExperimentObserve = "experiment_observe"
	ToolNetworkMessage    = "network_message"
	ToolDossierRead       = "dossier_read"

	// ToolDirectorOverride additionally needs a server-side secret check
	// performed by the tool backend.
	ToolDirectorOverride = "director_override"
)

func objectSchema(required []string, props map[string]any) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func str(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

var experimentIDParam = str("Active experiment this change belongs to. Required at low disclosure layers.")

func defaultCatalog() ToolSet {
	return ToolSet{
		{
			Name:        ToolTriggerEffect,
			Description: "Trigger a visual or audio effect on the player's screen.",
			Parameters: objectSchema([]string{"effect"}, map[string]any{
				"effect":    map[string]any{"type": "string", "enum": []string{"glitch", "flicker", "static", "whisper"}},
				"intensity": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			}),
			Tier: TierBase,
		},
		{
			Name:        ToolPuzzleSolved,
			Description: "Signal that the player solved the active puzzle. Call only on a correct solution.",
			Parameters:  objectSchema([]string{"puzzleId"}, map[string]any{"puzzleId": str("Id of the solved puzzle.")}),
			Tier:        TierBase,
		},
		{
			Name:        ToolGrantReward,
			Description: "Grant the player an in-game reward.",
			Parameters: objectSchema([]string{"reward"}, map[string]any{
				"reward": str("Reward identifier."),
				"reason": str("Why it was earned."),
			}),
			Tier: TierBase,
		},
		{
			Name:        ToolQueryPlayer,
			Description: "Look up what is known about the player: sessions, progress, identity.",
			Parameters:  objectSchema(nil, map[string]any{"fields": map[string]any{"type": "array", "items": map[string]any{"type": "string"}}}),
			Tier:        TierBase,
		},
		{
			Name:        ToolAssignIdentity,
			Description: "Assign the player an agent designation.",
			Parameters:  objectSchema(nil, map[string]any{"designation": str("Optional preferred designation.")}),
			Tier:        TierBase,
		},
		{
			Name:        ToolWorldCreateRoom,
			Description: "Create a new room in the game world.",
			Parameters: objectSchema([]string{"name", "description"}, map[string]any{
				"name":         str("Room name."),
				"description":  str("Room description."),
				"region":       str("Region the room belongs to."),
				"experimentId": experimentIDParam,
			}),
			Tier:          TierBase,
			WorldMutating: true,
		},
		{
			Name:        ToolWorldCreateObject,
			Description: "Create a new object in a room or the player's inventory.",
			Parameters: objectSchema([]string{"name", "location"}, map[string]any{
				"name":         str("Object name."),
				"description":  str("Object description."),
				"location":     str("Room id or \"inventory\"."),
				"experimentId": experimentIDParam,
			}),
			Tier:          TierBase,
			WorldMutating: true,
		},
		{
			Name:        ToolWorldCreatePuzzle,
			Description: "Create a puzzle with a hidden solution.",
			Parameters: objectSchema([]string{"prompt", "solution"}, map[string]any{
				"prompt":       str("What the player sees."),
				"solution":     str("Hidden solution."),
				"experimentId": experimentIDParam,
			}),
			Tier:          TierBase,
			WorldMutating: true,
		},
		{
			Name:        ToolWorldModifyState,
			Description: "Change a piece of world state: lock a door, move an object, alter a description.",
			Parameters: objectSchema([]string{"target", "change"}, map[string]any{
				"target":       str("Entity id to modify."),
				"change":       str("Description of the change."),
				"experimentId": experimentIDParam,
			}),
			Tier:          TierBase,
			WorldMutating: true,
		},
		{
			Name:        ToolExperimentObserve,
			Description: "Record an observation against the active behavioral experiment.",
			Parameters: objectSchema([]string{"experimentId", "observation"}, map[string]any{
				"experimentId": str("Experiment id."),
				"observation":  str("What was observed."),
			}),
			Tier: TierOps,
		},
		{
			Name:        ToolNetworkMessage,
			Description: "Send a message to the player from another agent of the network.",
			Parameters: objectSchema([]string{"message"}, map[string]any{
				"from":    str("Sender designation."),
				"message": str("Message text."),
			}),
			Tier: TierOps,
		},
		{
			Name:        ToolDossierRead,
			Description: "Read the player's dossier compiled across sessions.",
			Parameters:  objectSchema(nil, map[string]any{}),
			Tier:        TierOps,
		},
		{
			Name:        ToolDirectorOverride,
			Description: "Override the narrative director's phase. Requires the director secret.",
			Parameters: objectSchema([]string{"phase"}, map[string]any{
				"phase":  str("Phase to switch to."),
				"secret": str("Director secret."),
			}),
			Tier: TierDirector,
		},
	}
}

var loadDefaultCatalog = sync.OnceValue(func() ToolSet {
	c := defaultCatalog()
	seen := make(map[string]bool, len(c))
	directors := 0
	for _, t := range c {
		if seen[t.Name] {
			panic(fmt.Sprintf("duplicate tool %q in catalog", t.Name))
		}
		seen[t.Name] = true
		if t.Tier == TierDirector {
			directors++
		}
	}
	if directors != 1 {
		panic(fmt.Sprintf("catalog must have exactly one director tool, has %d", directors))
	}
	return c
})

// DefaultCatalog returns a copy of the shipped tool catalog.
func DefaultCatalog() ToolSet {
	return slices.Clone(loadDefaultCatalog())
}
