package statsview

// DefaultAddress is where the stats server listens unless configured
// otherwise.
const DefaultAddress = "localhost:12600"
