package demoserver

import (
	"strconv"
	"time"
)

func userList(users []*userRecord) map[string]any {
	payload := make([]any, 0, len(users))
	for _, u := range users {
		payload = append(payload, userMap(u))
	}
	return map[string]any{"users": payload}
}

// seed populates a small social graph so the demo feels lived-in.
func (s *Server) seed() {
	joined := func(daysAgo int) string {
		return time.Now().UTC().AddDate(0, 0, -daysAgo).Format(time.RFC3339)
	}

	s.addUser(&userRecord{
		ID: "u-ada", Name: "Ada Lindgren", Username: "ada",
		Bio: "Birdwatcher. Compiler hobbyist.", AvatarSeed: "ada", JoinedAt: joined(400),
	})
	s.addUser(&userRecord{
		ID: "u-bo", Name: "Bo Okafor", Username: "bo_okafor",
		Bio: "Photos of clouds, mostly.", AvatarSeed: "bo", JoinedAt: joined(310),
	})
	s.addUser(&userRecord{
		ID: "u-cleo", Name: "Cleo Marsh", Username: "cleo",
		Bio: "Recovering perfectionist.", AvatarSeed: "cleo", JoinedAt: joined(220),
	})
	s.addUser(&userRecord{
		ID: "u-dev", Name: "Devi Raman", Username: "devi_r",
		Bio: "I make soup and software.", AvatarSeed: "devi", JoinedAt: joined(150),
	})
	s.addUser(&userRecord{
		ID: "u-emil", Name: "Emil Forsberg", Username: "emil",
		AvatarSeed: "emil", JoinedAt: joined(90),
	})
	s.addUser(&userRecord{
		ID: "u-fern", Name: "Fern Castillo", Username: "fern",
		Bio: "Trail runner. Ask me about moss.", AvatarSeed: "fern", JoinedAt: joined(30),
	})

	follow := func(follower, followee string) {
		if s.follows[follower] == nil {
			s.follows[follower] = make(map[string]struct{})
		}
		s.follows[follower][followee] = struct{}{}
	}
	follow("u-bo", "u-ada")
	follow("u-cleo", "u-ada")
	follow("u-dev", "u-ada")
	follow("u-emil", "u-ada")
	follow("u-ada", "u-cleo")
	follow("u-dev", "u-cleo")
	follow("u-fern", "u-bo")
	follow("u-emil", "u-dev")

	now := time.Now().UTC()
	post := func(author, content string, minutesAgo, replies int, likers ...string) {
		s.nextPost++
		p := &postRecord{
			ID:        "p" + strconv.Itoa(s.nextPost),
			AuthorID:  author,
			Content:   content,
			CreatedAt: now.Add(-time.Duration(minutesAgo) * time.Minute),
			Replies:   replies,
			Likers:    make(map[string]struct{}),
		}
		for _, id := range likers {
			p.Likers[id] = struct{}{}
		}
		s.posts = append(s.posts, p)
	}
	post("u-ada", "Saw a goldcrest this morning. Tiny, furious, perfect.", 2400, 3, "u-bo", "u-cleo")
	post("u-cleo", "Shipped the thing. Immediately found the bug. Classic.", 1100, 5, "u-ada", "u-dev", "u-emil")
	post("u-bo", "Cumulus congestus doing its best impression of a cathedral.", 700, 1, "u-fern")
	post("u-ada", "Hot take: standup should be a written paragraph.", 240, 8, "u-dev")
	post("u-dev", "Today's soup: roasted tomato. Today's software: also roasted.", 45, 2, "u-cleo")
}
