package part

import "math/rand/v2"

// ChildrenSubtypes are the candidate subtypes of the Children part.
var ChildrenSubtypes = []string{
	"Theme Parks for Kids", "Amusement Rides", "Zoos & Petting Zoos", "Aquariums",
	"Children’s Museums", "Science Centers", "Playgrounds & Adventure Parks", "Indoor Play Centers",
	"Water Parks for Kids", "Circuses & Puppet Theaters", "Dinosaur Parks", "Fairy Tale Parks",
	"Lego Worlds & Construction Parks", "Farm Attractions", "Magic & Illusion Shows", "Cartoon Meet & Greets",
	"Adventure & Quest Games", "Planetariums for Kids", "Storytelling Parks", "Mini Sports Arenas",
}

// InstagramSubtypes are the candidate subtypes of the Instagram part.
var InstagramSubtypes = []string{
	"Street Art & Murals", "Rooftop Views", "Iconic Landmarks", "Colorful Neighborhoods",
	"Nature Backdrops", "Beaches & Coastal Views", "Bridges & Overlooks", "Hidden Alleys & Courtyards",
	"Historic Architecture", "Modern Architecture", "Flower Fields & Gardens", "Food & Drink Spots",
	"Markets & Bazaars", "Desert & Sand Dunes", "Unique Hotels & Stays", "Infinity Pools",
	"Cultural Installations", "Festivals & Events", "Iconic Staircases & Pathways", "Unusual Natural Wonders",
}

// PlacesOfPowerSubtypes are the candidate subtypes of the PlacesOfPower part.
var PlacesOfPowerSubtypes = []string{
	"Ancient Temples", "Pyramids", "Sacred Mountains", "Megalithic Sites", "Pilgrimage Routes",
	"Monasteries & Hermitages", "Holy Springs & Wells", "Ancient Cities", "Desert Power Sites",
	"Caves & Sanctuaries", "Volcanic Zones", "Celestial Alignment Sites", "Sacred Forests",
	"Monoliths & Rock Formations", "Labyrinths", "Battlefields of Destiny", "Relic Shrines & Tombs",
	"Oracle Sites", "Crossroads", "Modern Energy Places",
}

// Sampler picks a subset of candidate subtypes.
type Sampler interface {
	// Sample returns min(n, len(candidates)) distinct candidates.
	Sample(candidates []string, n int) []string
}

// SamplerFunc adapts a function to Sampler.
type SamplerFunc func(candidates []string, n int) []string

// Sample calls f.
func (f SamplerFunc) Sample(candidates []string, n int) []string { return f(candidates, n) }

// RandomSampler draws a uniform random subset without repetition.
type RandomSampler struct{}

// Sample implements Sampler.
func (RandomSampler) Sample(candidates []string, n int) []string {
	n = min(max(n, 0), len(candidates))
	out := make([]string, 0, n)
	for _, i := range rand.Perm(len(candidates))[:n] {
		out = append(out, candidates[i])
	}
	return out
}
