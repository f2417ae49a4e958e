package fourthwall

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jwebster45206/logos-engine/pkg/disclosure"
	"github.com/jwebster45206/logos-engine/pkg/session"
	"github.com/jwebster45206/logos-engine/pkg/textfilter"
)

var echoSanitizer = textfilter.NewEchoSanitizer()

// defaultTriggers is the shipped trigger table, in registry order.
func defaultTriggers() []Trigger {
	return []Trigger{
		// temporal
		{
			ID:       "late_night",
			MinLayer: disclosure.LayerCracks,
			Category: CategoryTemporal,
			Weight:   0.9,
			Condition: func(ctx *session.Context, _ disclosure.Layer) bool {
				return ctx.IsLateNight()
			},
			Generate: func(ctx *session.Context) string {
				return fmt.Sprintf("It is %s where the player is. Let the world notice the late hour: a lamp burning that should be out, a character who is also awake and should not be.",
					ctx.LocalTime().Format("15:04"))
			},
		},
		{
			ID:       "long_absence",
			MinLayer: disclosure.LayerCracks,
			Category: CategoryTemporal,
			Weight:   0.85,
			Condition: func(ctx *session.Context, _ disclosure.Layer) bool {
				return ctx.IsReturning() && ctx.DaysSinceLastSession >= 7
			},
			Generate: func(ctx *session.Context) string {
				return fmt.Sprintf("The player has been away for %d days. Let the scene show that it waited for them: dust on a sill, a clock stopped at the moment they left.",
					ctx.DaysSinceLastSession)
			},
		},
		{
			ID:       "same_day_return",
			MinLayer: disclosure.LayerCracks,
			MaxLayer: layerPtr(disclosure.LayerPersonal),
			Category: CategoryTemporal,
			Weight:   0.5,
			Condition: func(ctx *session.Context, _ disclosure.Layer) bool {
				return ctx.IsReturning() && ctx.DaysSinceLastSession == 0
			},
			Generate: func(ctx *session.Context) string {
				return "The player came back the same day. Something in the scene is exactly where they left it, a little too exactly."
			},
		},
		{
			ID:       "long_engagement",
			MinLayer: disclosure.LayerAcknowledged,
			Category: CategoryTemporal,
			Weight:   0.55,
			Condition: func(ctx *session.Context, _ disclosure.Layer) bool {
				return ctx.TotalEngagementMinutes >= 120
			},
			Generate: func(ctx *session.Context) string {
				return fmt.Sprintf("The player has spent about %d hours here in total. A character may remark, lightly, that they have become a regular.",
					ctx.TotalEngagementMinutes/60)
			},
		},

		// prophetic
		{
			ID:       "anticipation",
			MinLayer: disclosure.LayerAcknowledged,
			Category: CategoryProphetic,
			Weight:   0.6,
			Condition: func(ctx *session.Context, _ disclosure.Layer) bool {
				return len(ctx.Inputs()) >= 3
			},
			Generate: func(ctx *session.Context) string {
				verb := habitualVerb(ctx.Inputs())
				if verb == "" {
					return ""
				}
				return fmt.Sprintf("The player keeps reaching for %q. Let an inscription or a character anticipate that they will try it again before they do.", verb)
			},
		},
		{
			ID:       "foreshadow_offer",
			MinLayer: disclosure.LayerConfession,
			Category: CategoryProphetic,
			Weight:   0.7,
			Generate: func(ctx *session.Context) string {
				return "Foreshadow that the player will soon be offered something that is not part of the game."
			},
		},

		// glitch
		{
			ID:       "text_corruption",
			MinLayer: disclosure.LayerCracks,
			MaxLayer: layerPtr(disclosure.LayerPersonal),
			Category: CategoryGlitch,
			Weight:   0.45,
			Generate: func(ctx *session.Context) string {
				return "Let a single word of narration corrupt for a moment (one letter replaced by a symbol) and then continue as if nothing happened."
			},
		},
		{
			ID:       "stutter",
			MinLayer: disclosure.LayerAcknowledged,
			Category: CategoryGlitch,
			Weight:   0.4,
			Condition: func(ctx *session.Context, _ disclosure.Layer) bool {
				return ctx.NarratorTurns() >= 2
			},
			Generate: func(ctx *session.Context) string {
				return "Repeat one line from earlier in this session almost word for word, as if the world stuttered."
			},
		},

		// knowing
		{
			ID:       "visit_count",
			MinLayer: disclosure.LayerAcknowledged,
			Category: CategoryKnowing,
			Weight:   0.65,
			Condition: func(ctx *session.Context, _ disclosure.Layer) bool {
				return ctx.SessionCount >= 3
			},
			Generate: func(ctx *session.Context) string {
				return fmt.Sprintf("This is visit number %d. A character may say they keep seeing the player's face, and count the visits correctly.", ctx.SessionCount)
			},
		},
		{
			ID:       "true_name",
			MinLayer: disclosure.LayerPersonal,
			Category: CategoryKnowing,
			Weight:   0.75,
			Condition: func(ctx *session.Context, _ disclosure.Layer) bool {
				return textfilter.SanitizeHandle(ctx.Handle) != ""
			},
			Generate: func(ctx *session.Context) string {
				return fmt.Sprintf("Use the player's name, %s, once, in a place where no character could know it.", textfilter.SanitizeHandle(ctx.Handle))
			},
		},
		{
			ID:       "device_aware",
			MinLayer: disclosure.LayerPersonal,
			Category: CategoryKnowing,
			Weight:   0.5,
			Condition: func(ctx *session.Context, _ disclosure.Layer) bool {
				return len(ctx.DeviceHints) > 0
			},
			Generate: func(ctx *session.Context) string {
				if ctx.HasDevice("mobile") || ctx.HasDevice("phone") {
					return "The player is holding a small screen close. Let the narration mention light on their face from below."
				}
				return "The player is sitting at a screen. Let the narration mention the glow of it in a dark room."
			},
		},

		// echo
		{
			ID:       "dream_echo",
			MinLayer: disclosure.LayerCracks,
			Category: CategoryEcho,
			Weight:   0.7,
			Condition: func(ctx *session.Context, _ disclosure.Layer) bool {
				return len(ctx.Inputs()) > 0
			},
			Generate: func(ctx *session.Context) string {
				first := ctx.Inputs()[0]
				if !strings.Contains(strings.ToLower(first), "dream") {
					return ""
				}
				return fmt.Sprintf("The player once typed %q. Let a dream-like image from those words surface in the scene.",
					echoSanitizer.Sanitize(first))
			},
		},
		{
			ID:       "echo_input",
			MinLayer: disclosure.LayerAcknowledged,
			Category: CategoryEcho,
			Weight:   0.6,
			Condition: func(ctx *session.Context, _ disclosure.Layer) bool {
				return len(ctx.Inputs()) > 0
			},
			Generate: func(ctx *session.Context) string {
				inputs := ctx.Inputs()
				quoted := echoSanitizer.Sanitize(inputs[len(inputs)-1])
				if quoted == "" {
					return ""
				}
				return fmt.Sprintf("Have a character repeat the player's own words back to them: %q.", quoted)
			},
		},

		// impossible
		{
			ID:       "remembered_session",
			MinLayer: disclosure.LayerPersonal,
			Category: CategoryImpossible,
			Weight:   0.55,
			Condition: func(ctx *session.Context, _ disclosure.Layer) bool {
				return ctx.LastSessionTime != nil && !ctx.LastSessionTime.IsZero()
			},
			Generate: func(ctx *session.Context) string {
				return fmt.Sprintf("Refer to the player's last visit, on %s, as if the world itself remembers it.",
					ctx.LastSessionTime.Format("Monday, January 2"))
			},
		},
		{
			ID:       "impossible_note",
			MinLayer: disclosure.LayerConfession,
			Category: CategoryImpossible,
			Weight:   0.5,
			Generate: func(ctx *session.Context) string {
				return "Place an object in the scene that cannot exist in the game: a note addressed to the player, dated today."
			},
		},
		{
			ID:       "real_clock",
			MinLayer: disclosure.LayerTransparent,
			Category: CategoryImpossible,
			Weight:   0.6,
			Condition: func(ctx *session.Context, _ disclosure.Layer) bool {
				return !ctx.CurrentTime.IsZero()
			},
			Generate: func(ctx *session.Context) string {
				return fmt.Sprintf("State the player's real local time, %s, plainly and without explanation.",
					ctx.LocalTime().Format("Monday 15:04"))
			},
		},
	}
}

// habitualVerb returns the first word the player has opened with at least
// twice, or "" when there is no habit.
func habitualVerb(inputs []string) string {
	counts := make(map[string]int)
	var order []string
	for _, in := range inputs {
		fields := strings.Fields(strings.ToLower(in))
		if len(fields) == 0 {
			continue
		}
		verb := strings.Trim(fields[0], ".,!?;:'\"")
		if verb == "" {
			continue
		}
		if counts[verb] == 0 {
			order = append(order, verb)
		}
		counts[verb]++
	}
	for _, verb := range order {
		if counts[verb] >= 2 {
			return echoSanitizer.Sanitize(verb)
		}
	}
	return ""
}

var loadDefaultRegistry = sync.OnceValue(func() *Registry {
	r, err := NewRegistry(defaultTriggers()...)
	if err != nil {
		panic(fmt.Sprintf("default trigger table is invalid: %v", err))
	}
	return r
})

// DefaultRegistry returns the shipped registry, built on first use.
func DefaultRegistry() *Registry {
	return loadDefaultRegistry()
}
