package hazard

// Kind names a hazard type. The set of kinds is data: any kind present in
// the loaded catalog is valid.
type Kind string

// Kinds shipped in the default catalog.
const (
	KindDrought  Kind = "drought"
	KindIceAge   Kind = "ice_age"
	KindPlague   Kind = "plague"
	KindHeatwave Kind = "heatwave"
	KindFamine   Kind = "famine"

	KindMeteor     Kind = "meteor"
	KindVolcano    Kind = "volcano"
	KindFlood      Kind = "flood"
	KindWildfire   Kind = "wildfire"
	KindEarthquake Kind = "earthquake"
)

// Channel is the agent property a modifier acts on.
type Channel string

const (
	ChannelMortality    Channel = "mortality"
	ChannelFood         Channel = "food"
	ChannelEnergyDrain  Channel = "energy_drain"
	ChannelSpeed        Channel = "speed"
	ChannelReproduction Channel = "reproduction"
	ChannelVisibility   Channel = "visibility"
)

// Operation is how a modifier combines with the base value.
type Operation string

const (
	OpAdd      Operation = "add"
	OpMultiply Operation = "multiply"
)

func (o Operation) Valid() bool { return o == OpAdd || o == OpMultiply }

// Neutral is the value that leaves a base value unchanged.
func (o Operation) Neutral() float64 {
	if o == OpMultiply {
		return 1
	}
	return 0
}
