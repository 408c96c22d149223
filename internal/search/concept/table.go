package concept

// defaultTable is the built-in relatedness table for the wellness corpus.
// Edges are stored once per canonical key; Similarity checks both directions
// so the effect is symmetric.
var defaultTable = map[string]map[string]float64{
	"stress": {
		"anxiety":    0.8,
		"pressure":   0.8,
		"tension":    0.7,
		"overwhelm":  0.7,
		"burnout":    0.7,
		"worry":      0.6,
	},
	"anxiety": {
		"stress":  0.8,
		"worry":   0.8,
		"fear":    0.7,
		"panic":   0.7,
		"nervous": 0.6,
	},
	"sleep": {
		"insomnia": 0.8,
		"rest":     0.8,
		"fatigue":  0.6,
		"bedtime":  0.6,
		"dreams":   0.5,
	},
	"work": {
		"career":    0.8,
		"job":       0.8,
		"office":    0.7,
		"workplace": 0.8,
		"burnout":   0.6,
	},
	"career": {
		"work":      0.8,
		"job":       0.8,
		"promotion": 0.6,
		"growth":    0.5,
	},
	"exercise": {
		"fitness":  0.8,
		"workout":  0.8,
		"movement": 0.6,
		"running":  0.6,
		"strength": 0.5,
	},
	"meditation": {
		"mindfulness": 0.9,
		"breathing":   0.7,
		"calm":        0.7,
		"focus":       0.6,
	},
	"mindfulness": {
		"meditation": 0.9,
		"awareness":  0.7,
		"presence":   0.6,
		"calm":       0.6,
	},
	"relationship": {
		"partner":  0.8,
		"marriage": 0.7,
		"family":   0.6,
		"conflict": 0.5,
	},
	"family": {
		"parents":  0.7,
		"children": 0.7,
		"home":     0.5,
	},
	"money": {
		"finance":   0.8,
		"budget":    0.7,
		"savings":   0.7,
		"debt":      0.6,
		"financial": 0.8,
	},
	"health": {
		"wellness":  0.8,
		"nutrition": 0.6,
		"fitness":   0.6,
		"energy":    0.5,
	},
	"nutrition": {
		"diet":   0.8,
		"food":   0.7,
		"eating": 0.7,
		"health": 0.6,
	},
	"burnout": {
		"exhaustion": 0.8,
		"fatigue":    0.7,
		"stress":     0.7,
		"overwork":   0.7,
	},
	"confidence": {
		"esteem":    0.7,
		"assertive": 0.6,
		"doubt":     0.5,
	},
	"loneliness": {
		"isolation":  0.8,
		"connection": 0.6,
		"friendship": 0.5,
	},
	"grief": {
		"loss":    0.8,
		"sadness": 0.7,
		"healing": 0.5,
	},
	"anger": {
		"frustration": 0.8,
		"irritation":  0.7,
		"conflict":    0.5,
	},
	"focus": {
		"concentration": 0.8,
		"attention":     0.8,
		"distraction":   0.6,
		"productivity":  0.6,
	},
	"productivity": {
		"focus":      0.6,
		"efficiency": 0.7,
		"habits":     0.5,
		"time":       0.5,
	},
	"habits": {
		"routine":    0.8,
		"discipline": 0.6,
		"consistency": 0.6,
	},
	"motivation": {
		"goals":      0.7,
		"drive":      0.7,
		"discipline": 0.6,
	},
	"breathing": {
		"breath":     0.9,
		"meditation": 0.7,
		"relaxation": 0.6,
	},
	"gratitude": {
		"appreciation": 0.8,
		"journaling":   0.5,
		"positivity":   0.6,
	},
	"fatigue": {
		"tiredness":  0.8,
		"exhaustion": 0.8,
		"energy":     0.6,
		"sleep":      0.6,
	},
	"depression": {
		"sadness":  0.7,
		"mood":     0.6,
		"therapy":  0.5,
		"anxiety":  0.5,
	},
	"therapy": {
		"counseling": 0.8,
		"support":    0.5,
		"healing":    0.5,
	},
	"parenting": {
		"children": 0.8,
		"family":   0.7,
		"patience": 0.5,
	},
	"boundaries": {
		"limits":    0.8,
		"balance":   0.6,
		"assertive": 0.6,
	},
	"balance": {
		"harmony":    0.7,
		"boundaries": 0.6,
		"wellbeing":  0.6,
	},
}
