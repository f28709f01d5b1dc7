// Package nav provides grid pathfinding and an asynchronous path follower
// that steers a character along a computed route.
package nav

import (
	"container/heap"
	"math"
)

// Point is a grid cell along a path.
type Point struct {
	X int
	Y int
}

type pathNode struct {
	idx   int
	score float64
}

type nodeHeap []pathNode

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return h[i].score < h[j].score }
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(pathNode)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// FindPath runs A* on a 4-way grid from start to goal. isBlocked reports
// untraversable cells; maxNodes bounds the search to avoid runaway queries.
// Returns nil when no path exists.
func FindPath(start, goal Point, width, height int, isBlocked func(x, y int) bool, maxNodes int) []Point {
	if width <= 0 || height <= 0 {
		return nil
	}
	if start == goal {
		return []Point{start}
	}
	if goal.X < 0 || goal.Y < 0 || goal.X >= width || goal.Y >= height {
		return nil
	}
	if isBlocked != nil && isBlocked(goal.X, goal.Y) {
		return nil
	}

	startIdx := start.Y*width + start.X
	goalIdx := goal.Y*width + goal.X

	open := &nodeHeap{{idx: startIdx, score: heuristic(start, goal)}}
	cameFrom := make(map[int]int, 128)
	gScore := map[int]float64{startIdx: 0}

	processed := 0
	for open.Len() > 0 && processed < maxNodes {
		processed++
		current := heap.Pop(open).(pathNode).idx
		if current == goalIdx {
			return reconstruct(cameFrom, current, startIdx, width)
		}

		cx := current % width
		cy := current / width
		for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx, ny := cx+d[0], cy+d[1]
			if nx < 0 || ny < 0 || nx >= width || ny >= height {
				continue
			}
			if isBlocked != nil && isBlocked(nx, ny) {
				continue
			}
			neighbor := ny*width + nx
			tentative := gScore[current] + 1
			if prev, seen := gScore[neighbor]; !seen || tentative < prev {
				cameFrom[neighbor] = current
				gScore[neighbor] = tentative
				heap.Push(open, pathNode{
					idx:   neighbor,
					score: tentative + heuristic(Point{X: nx, Y: ny}, goal),
				})
			}
		}
	}

	return nil
}

func reconstruct(cameFrom map[int]int, current, start, width int) []Point {
	path := make([]Point, 0, 32)
	for {
		path = append(path, Point{X: current % width, Y: current / width})
		if current == start {
			break
		}
		prev, ok := cameFrom[current]
		if !ok {
			return nil
		}
		current = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func heuristic(a, b Point) float64 {
	return math.Abs(float64(a.X-b.X)) + math.Abs(float64(a.Y-b.Y))
}
