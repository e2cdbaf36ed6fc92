package catan

// checkTurn rejects actions from anyone but the current player and any
// action once the game is over.
func (g *Game) checkTurn(kind ActionKind, player int) error {
	if g.phase == PhaseDone {
		return reject(kind, player, ErrGameOver)
	}
	if player != g.turn {
		return reject(kind, player, ErrNotYourTurn)
	}
	return nil
}

// hasRoadAt reports whether player owns a road touching vertex v.
func (g *Game) hasRoadAt(player, v int) bool {
	for _, e := range g.board.vertices[v].Edges {
		if g.board.edges[e].Owner == player {
			return true
		}
	}
	return false
}

// roadPlacement checks where a road may go, ignoring cost. In setup the road
// must touch the town just placed; otherwise it must extend the player's
// network through a vertex that is either their own building or free of
// buildings.
func (g *Game) roadPlacement(player, e int) error {
	edge, ok := g.board.Edge(e)
	if !ok {
		return ErrUnknownID
	}
	if edge.Owner != NoPlayer {
		return ErrOccupied
	}
	if !g.board.IsLandEdge(e) {
		return ErrNotLand
	}
	if g.players[player].Roads >= MaxRoads {
		return ErrCapReached
	}
	if g.phase.IsSetup() {
		if t := g.lastTown[player]; t == edge.Vertices[0] || t == edge.Vertices[1] {
			return nil
		}
		return ErrNotConnected
	}
	for _, v := range edge.Vertices {
		owner := g.board.vertices[v].Owner
		if owner == player {
			return nil
		}
		if owner == NoPlayer && g.hasRoadAt(player, v) {
			return nil
		}
	}
	return ErrNotConnected
}

// townPlacement checks where a town may go, ignoring cost.
func (g *Game) townPlacement(player, v int) error {
	vert, ok := g.board.Vertex(v)
	if !ok {
		return ErrUnknownID
	}
	if vert.Owner != NoPlayer {
		return ErrOccupied
	}
	if !g.board.IsLandVertex(v) {
		return ErrNotLand
	}
	for _, n := range g.board.AdjacentVertices(v) {
		if g.board.vertices[n].Building != Empty {
			return ErrDistanceRule
		}
	}
	if g.players[player].Towns >= MaxTowns {
		return ErrCapReached
	}
	if g.phase.IsSetup() {
		return nil
	}
	if !g.hasRoadAt(player, v) {
		return ErrNotConnected
	}
	return nil
}

func (g *Game) cityPlacement(player, v int) error {
	vert, ok := g.board.Vertex(v)
	if !ok {
		return ErrUnknownID
	}
	if vert.Owner != player || vert.Building != Town {
		return ErrNotOwnTown
	}
	if g.players[player].Cities >= MaxCities {
		return ErrCapReached
	}
	return nil
}

// roadSites lists every edge where player could place a road right now,
// regardless of cost.
func (g *Game) roadSites(player int) []int {
	var out []int
	for e := range g.board.edges {
		if g.roadPlacement(player, e) == nil {
			out = append(out, e)
		}
	}
	return out
}

// RoadSites, TownSites and CitySites list placements that are legal for
// player right now apart from cost and whose turn it is. Planners use them
// to look ahead.
func (g *Game) RoadSites(player int) []int {
	if player < 0 || player >= NumPlayers {
		return nil
	}
	return g.roadSites(player)
}

func (g *Game) TownSites(player int) []int {
	if player < 0 || player >= NumPlayers {
		return nil
	}
	var out []int
	for v := range g.board.vertices {
		if g.townPlacement(player, v) == nil {
			out = append(out, v)
		}
	}
	return out
}

func (g *Game) CitySites(player int) []int {
	if player < 0 || player >= NumPlayers {
		return nil
	}
	var out []int
	for v := range g.board.vertices {
		if g.cityPlacement(player, v) == nil {
			out = append(out, v)
		}
	}
	return out
}

// LegalRoads lists the edges where BuildRoad would succeed for player.
func (g *Game) LegalRoads(player int) []int {
	if player != g.turn {
		return nil
	}
	switch g.phase {
	case PhaseSetupFirstRoad, PhaseSetupSecondRoad, PhaseProgress1, PhaseProgress2:
	case PhaseBuild:
		if !g.players[player].CanAfford(RoadCost, g.cfg.FreeBuild) {
			return nil
		}
	default:
		return nil
	}
	return g.roadSites(player)
}

// LegalTowns lists the vertices where BuildTown would succeed for player.
func (g *Game) LegalTowns(player int) []int {
	if player != g.turn {
		return nil
	}
	switch g.phase {
	case PhaseSetupSettlement, PhaseSetupCity:
	case PhaseBuild:
		if !g.players[player].CanAfford(TownCost, g.cfg.FreeBuild) {
			return nil
		}
	default:
		return nil
	}
	return g.TownSites(player)
}

// LegalCities lists the vertices where BuildCity would succeed for player.
func (g *Game) LegalCities(player int) []int {
	if player != g.turn || g.phase != PhaseBuild || !g.players[player].CanAfford(CityCost, g.cfg.FreeBuild) {
		return nil
	}
	return g.CitySites(player)
}

// CanBuildRoad, CanBuildTown, CanBuildCity and CanBuyCard are the pure
// affordability predicates a user interface consults before offering a build.
func (g *Game) CanBuildRoad(player int) bool {
	p := g.players[player]
	return p.Roads < MaxRoads && p.CanAfford(RoadCost, g.cfg.FreeBuild)
}

func (g *Game) CanBuildTown(player int) bool {
	p := g.players[player]
	return p.Towns < MaxTowns && p.CanAfford(TownCost, g.cfg.FreeBuild)
}

func (g *Game) CanBuildCity(player int) bool {
	p := g.players[player]
	return p.Cities < MaxCities && p.Towns > 0 && p.CanAfford(CityCost, g.cfg.FreeBuild)
}

func (g *Game) CanBuyCard(player int) bool {
	return g.deck.Total() > 0 && g.players[player].CanAfford(CardCost, g.cfg.FreeBuild)
}

// BuildRoad places a road. Setup and progress roads are free.
func (g *Game) BuildRoad(player, e int) error {
	const kind = ActBuildRoad
	if err := g.checkTurn(kind, player); err != nil {
		return err
	}
	var ev Event
	paid := false
	switch g.phase {
	case PhaseSetupFirstRoad, PhaseSetupSecondRoad:
		ev = EventRoadPlaced
	case PhaseProgress1, PhaseProgress2:
		ev = EventProgressRoad
	case PhaseBuild:
		paid = true
	default:
		return reject(kind, player, ErrWrongPhase)
	}
	if err := g.roadPlacement(player, e); err != nil {
		return reject(kind, player, err)
	}
	p := g.players[player]
	if paid && !p.CanAfford(RoadCost, g.cfg.FreeBuild) {
		return reject(kind, player, ErrInsufficientResources)
	}

	if paid {
		p.pay(RoadCost, g.cfg.FreeBuild)
	}
	g.board.edges[e].Owner = player
	p.Roads++
	g.logf(player, "built a road")
	g.updateLongestRoad()
	if ev != "" {
		g.fire(ev)
	}
	return nil
}

// BuildTown places a town. Setup towns are free and the second one collects
// one card from every producing hex around it.
func (g *Game) BuildTown(player, v int) error {
	const kind = ActBuildTown
	if err := g.checkTurn(kind, player); err != nil {
		return err
	}
	paid := false
	switch g.phase {
	case PhaseSetupSettlement, PhaseSetupCity:
	case PhaseBuild:
		paid = true
	default:
		return reject(kind, player, ErrWrongPhase)
	}
	if err := g.townPlacement(player, v); err != nil {
		return reject(kind, player, err)
	}
	p := g.players[player]
	if paid && !p.CanAfford(TownCost, g.cfg.FreeBuild) {
		return reject(kind, player, ErrInsufficientResources)
	}

	if paid {
		p.pay(TownCost, g.cfg.FreeBuild)
	}
	vert := &g.board.vertices[v]
	vert.Building = Town
	vert.Owner = player
	p.Towns++
	g.lastTown[player] = v
	if vert.Harbor != None {
		p.addHarbor(g.board.harbors[vert.Harbor].Resource)
	}
	if g.phase == PhaseSetupCity {
		for _, h := range vert.Hexes {
			if res := g.board.hexes[h].Resource(); res != ResourceNone {
				g.grant(player, res, 1)
			}
		}
	}
	g.logf(player, "built a town")
	g.updateLongestRoad()
	if !paid {
		g.fire(EventTownPlaced)
	}
	return nil
}

// BuildCity upgrades one of the player's towns.
func (g *Game) BuildCity(player, v int) error {
	const kind = ActBuildCity
	if err := g.checkTurn(kind, player); err != nil {
		return err
	}
	if g.phase != PhaseBuild {
		return reject(kind, player, ErrWrongPhase)
	}
	if err := g.cityPlacement(player, v); err != nil {
		return reject(kind, player, err)
	}
	p := g.players[player]
	if !p.CanAfford(CityCost, g.cfg.FreeBuild) {
		return reject(kind, player, ErrInsufficientResources)
	}

	p.pay(CityCost, g.cfg.FreeBuild)
	g.board.vertices[v].Building = City
	p.Towns--
	p.Cities++
	g.logf(player, "built a city")
	return nil
}

// grant gives n units of res. Gold fields give whatever the player holds
// least of, one unit at a time.
func (g *Game) grant(player int, res Resource, n int) {
	p := g.players[player]
	for range n {
		r := res
		if r == ResourceAny {
			r = p.Hand.Least()
		}
		p.Hand[r]++
	}
}
