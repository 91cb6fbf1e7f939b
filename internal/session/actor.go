package session

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/musichub/internal/catalog"
	"github.com/llehouerou/musichub/internal/engine"
	"github.com/llehouerou/musichub/internal/message"
)

type direction int

const (
	forward direction = iota
	backward
)

func (o *Owner) run() {
	defer close(o.done)
	defer o.bg.Wait()

	for {
		// Only the current instance is read, so signals of a released
		// instance can never reach the handlers.
		var signals <-chan engine.Signal
		if o.inst != nil {
			signals = o.inst.Signals()
		}

		select {
		case cmd := <-o.cmds:
			if stop := o.handle(cmd); stop {
				o.publishView()
				o.drain()
				return
			}
		case sig := <-signals:
			o.handleSignal(sig)
		case <-tickC(o.ticker):
			o.poll()
		case <-timerC(o.loadTimer):
			o.loadTimer = nil
			o.log.WithField("track_id", o.state.TrackID).Warn("engine load timed out")
			o.complete()
		}
		o.publishView()
	}
}

// drain runs once closed is set. Submits already past the closed check
// either land in the queue or give up on stopping; both finish before
// the gate is taken, so nothing reaches the queue afterwards.
func (o *Owner) drain() {
	close(o.stopping)
	o.gate.Lock()
	o.gate.Unlock() //nolint:staticcheck // barrier only
	for {
		select {
		case cmd := <-o.cmds:
			o.dropped(cmd.Action)
		default:
			return
		}
	}
}

func (o *Owner) handle(cmd message.Command) bool {
	log := o.log.WithField("action", cmd.Action)

	switch cmd.Action {
	case message.CmdPlay:
		o.handlePlay(cmd.Args)
	case message.CmdPause:
		o.pause()
	case message.CmdResume:
		o.resume()
	case message.CmdToggle:
		if o.state.IsPlaying || (o.phase == PhaseLoading && o.autoplay) {
			o.pause()
		} else {
			o.resume()
		}
	case message.CmdSeek:
		pos, ok := cmd.Args.Uint64(message.KeyPositionMs)
		if !ok {
			log.Debug("seek without position ignored")
			return false
		}
		o.seek(pos)
	case message.CmdNext:
		o.advance(forward)
	case message.CmdPrevious:
		o.advance(backward)
	case message.CmdLoopOn, message.CmdLoopOff:
		o.state.IsLoopEnabled = cmd.Action == message.CmdLoopOn
		o.emit(message.LoopEvent(o.state.IsLoopEnabled))
		o.refresh()
	case message.CmdShuffleOn, message.CmdShuffleOff:
		o.state.IsShuffleEnabled = cmd.Action == message.CmdShuffleOn
		o.emit(message.ShuffleEvent(o.state.IsShuffleEnabled))
		o.refresh()
	case message.CmdDownloadSong:
		o.requestDownload(cmd.Args)
	case message.CmdGetCurrentSong:
		o.sample()
		o.emit(message.CurrentSong(o.state))
	case message.CmdAddFavorite, message.CmdRemoveFavorite:
		o.markFavorite(cmd.Args, cmd.Action == message.CmdAddFavorite)
	case message.CmdClose:
		o.shutdown()
		return true
	default:
		log.Warn("unknown command ignored")
	}
	return false
}

func (o *Owner) handlePlay(args message.Args) {
	p, ok := message.PlayArgsFrom(args)
	if !ok {
		o.log.Debug("play without song id ignored")
		return
	}
	var dur time.Duration
	if t, found := o.catalog.ByID(p.SongID); found {
		dur = t.Duration
		if p.MediaURI == "" {
			p = playArgs(t)
		}
	} else if p.MediaURI == "" {
		o.log.WithField("track_id", p.SongID).Error("play requested for unknown track")
		return
	}
	o.load(p, dur, "")
}

// load releases the current instance and starts loading p. announce,
// when set, is emitted with the new track right after LOADING.
func (o *Owner) load(p message.PlayArgs, dur time.Duration, announce message.EventAction) {
	o.release()
	o.emit(message.NewEvent(message.EvtLoading, nil))

	o.current = p
	o.autoplay = true
	o.phase = PhaseLoading
	o.state = message.State{
		TrackID:          p.SongID,
		Title:            p.Title,
		Artist:           p.Artist,
		ImageURI:         p.ImageURI,
		DurationMs:       uint64(max(0, dur.Milliseconds())),
		IsLoopEnabled:    o.state.IsLoopEnabled,
		IsShuffleEnabled: o.state.IsShuffleEnabled,
		IsFavorite:       o.isFavorite(p.SongID),
	}
	o.announced = announce != ""
	if o.announced {
		// An advance keeps playing, so it is announced as playing.
		o.state.IsPlaying = o.autoplay
		o.emit(message.TrackChanged(announce, o.state))
	}

	log := o.log.WithFields(logrus.Fields{"track_id": p.SongID, "uri": p.MediaURI})
	inst, err := o.engine.Load(p.MediaURI)
	if err != nil {
		log.WithError(err).Error("engine load failed")
		o.complete()
		return
	}
	o.inst = inst
	o.loadTimer = time.NewTimer(o.opts.loadTimeout)
	log.Debug("loading track")
	o.refresh()
}

func (o *Owner) handleSignal(sig engine.Signal) {
	log := o.log.WithFields(logrus.Fields{
		"track_id": o.state.TrackID,
		"signal":   sig.Kind,
		"phase":    o.phase,
	})

	switch sig.Kind {
	case engine.SignalReady:
		if o.phase != PhaseLoading {
			log.Debug("duplicate ready ignored")
			return
		}
		o.ready()
	case engine.SignalEnded:
		o.ended()
	case engine.SignalError:
		if o.phase == PhaseLoading {
			log.WithError(sig.Err).Error("track failed to load")
			o.complete()
			return
		}
		log.WithError(sig.Err).Warn("playback error, skipping track")
		o.stopPolling()
		o.phase = PhaseEnded
		o.advance(forward)
	}
}

func (o *Owner) ready() {
	o.stopLoadTimer()
	if d := o.inst.Duration(); d > 0 {
		o.state.DurationMs = uint64(d.Milliseconds())
	}
	o.state.PositionMs = 0
	o.state.IsPlaying = o.autoplay
	o.phase = PhasePaused
	if o.autoplay {
		o.inst.Play()
		o.phase = PhasePlaying
		o.startPolling()
	}
	o.emit(message.Loaded(o.state))
	o.announced = true
	o.refresh()
	o.recordListen(o.state.TrackID)
}

func (o *Owner) ended() {
	o.stopPolling()
	o.state.PositionMs = o.state.DurationMs
	o.phase = PhaseEnded

	if o.state.IsLoopEnabled && !o.state.IsShuffleEnabled {
		o.inst.SeekTo(0)
		o.inst.Play()
		o.state.PositionMs = 0
		o.state.IsPlaying = true
		o.phase = PhasePlaying
		o.startPolling()
		o.emit(message.PositionUpdate(0, o.state.DurationMs))
		o.refresh()
		return
	}
	o.advance(forward)
}

// advance applies the auto-advance policy: shuffle picks a random track,
// loop restarts the current one, otherwise the catalog sequence decides.
func (o *Owner) advance(dir direction) {
	announce := message.EvtNext
	if dir == backward {
		announce = message.EvtPrevious
	}

	var t catalog.Track
	var ok bool
	switch {
	case o.state.IsShuffleEnabled:
		t, ok = o.catalog.Random()
	case o.state.IsLoopEnabled && o.state.HasTrack():
		t, ok = o.catalog.ByID(o.state.TrackID)
	case dir == backward:
		t, ok = o.catalog.Previous(o.state.TrackID)
	default:
		t, ok = o.catalog.Next(o.state.TrackID)
	}

	log := o.log.WithFields(logrus.Fields{"track_id": o.state.TrackID, "event": announce})
	if !ok {
		log.Debug("no track to advance to")
		o.complete()
		return
	}
	if t.MediaURI == "" {
		log.WithField("next_id", t.ID).Warn("track has no media uri")
		o.complete()
		return
	}
	o.load(playArgs(t), t.Duration, announce)
}

// complete stops playback when there is nothing more to play.
func (o *Owner) complete() {
	o.release()
	o.phase = PhaseIdle
	o.state.IsPlaying = false
	o.state = o.state.Clamp()
	o.emit(message.NewEvent(message.EvtPaused, nil))
	o.emit(message.NewEvent(message.EvtCompleted, nil))
	if !o.announced {
		// A direct PLAY that never loaded has not shown its track yet.
		o.emit(message.CurrentSong(o.state))
		o.announced = true
	}
	o.refresh()
}

func (o *Owner) pause() {
	switch o.phase {
	case PhasePlaying:
		o.inst.Pause()
		o.sample()
		o.stopPolling()
		o.state.IsPlaying = false
		o.phase = PhasePaused
		o.emit(message.NewEvent(message.EvtPaused, nil))
		o.refresh()
	case PhaseLoading:
		o.autoplay = false
		if o.state.IsPlaying {
			o.state.IsPlaying = false
			o.emit(message.NewEvent(message.EvtPaused, nil))
			o.refresh()
		}
	default:
		o.log.WithField("phase", o.phase).Debug("pause ignored")
	}
}

func (o *Owner) resume() {
	switch o.phase {
	case PhasePaused:
		o.inst.Play()
		o.state.IsPlaying = true
		o.phase = PhasePlaying
		o.startPolling()
		o.emit(message.NewEvent(message.EvtResumed, nil))
		o.refresh()
	case PhaseLoading:
		o.autoplay = true
		if o.announced && !o.state.IsPlaying {
			o.state.IsPlaying = true
			o.emit(message.NewEvent(message.EvtResumed, nil))
			o.refresh()
		}
	case PhaseIdle:
		if o.current.MediaURI == "" {
			o.log.Debug("resume without a track ignored")
			return
		}
		o.load(o.current, time.Duration(o.state.DurationMs)*time.Millisecond, "")
	default:
		o.log.WithField("phase", o.phase).Debug("resume ignored")
	}
}

func (o *Owner) seek(posMs uint64) {
	if !o.phase.loaded() {
		o.log.WithField("phase", o.phase).Debug("seek ignored")
		return
	}
	if o.state.DurationMs > 0 {
		posMs = min(posMs, o.state.DurationMs)
	}
	o.inst.SeekTo(time.Duration(posMs) * time.Millisecond)
	o.state.PositionMs = posMs
	o.refresh()
}

func (o *Owner) poll() {
	if o.phase != PhasePlaying {
		o.stopPolling()
		return
	}
	o.sample()
	o.emit(message.PositionUpdate(o.state.PositionMs, o.state.DurationMs))
}

// sample copies the engine position into the state.
func (o *Owner) sample() {
	if !o.phase.loaded() {
		return
	}
	if d := o.inst.Duration(); d > 0 {
		o.state.DurationMs = uint64(d.Milliseconds())
	}
	o.state.PositionMs = uint64(max(0, o.inst.Position().Milliseconds()))
	o.state = o.state.Clamp()
}

func (o *Owner) requestDownload(args message.Args) {
	id, _ := args.Int64(message.KeySongID)
	log := o.log.WithField("track_id", id)
	if _, ok := o.catalog.ByID(id); !ok {
		log.Error("download requested for unknown track")
		return
	}
	if o.downloads == nil {
		log.Warn("downloads unavailable")
		return
	}
	o.bg.Go(func() {
		if err := o.downloads.Enqueue(context.Background(), id); err != nil {
			log.WithError(err).Warn("download not queued")
		}
	})
}

func (o *Owner) markFavorite(args message.Args, favorite bool) {
	id, ok := args.Int64(message.KeySongID)
	if !ok {
		o.log.Debug("favorite change without song id ignored")
		return
	}
	if id == o.state.TrackID {
		o.state.IsFavorite = favorite
		o.refresh()
	}
	o.emit(message.FavoriteEvent(id, favorite))
	o.emit(message.FavoriteChanged{TrackID: id, Favorite: favorite})
}

func (o *Owner) shutdown() {
	o.closed.Store(true)
	o.release()
	o.phase = PhaseClosed
	o.state.IsPlaying = false
	for _, s := range o.surfaces {
		s.Hide()
	}
	o.log.Debug("session closed")
}

func (o *Owner) isFavorite(id int64) bool {
	if o.favorites == nil {
		return false
	}
	fav, err := o.favorites.IsFavorite(context.Background(), id)
	if err != nil {
		o.log.WithError(err).WithField("track_id", id).Warn("favorite lookup failed")
		return false
	}
	return fav
}

func (o *Owner) recordListen(id int64) {
	if o.listens == nil {
		return
	}
	o.bg.Go(func() {
		if err := o.listens.RecordListen(context.Background(), id); err != nil {
			o.log.WithError(err).WithField("track_id", id).Warn("recording listen")
			return
		}
		if !o.closed.Load() {
			o.bus.Publish(message.ListenRecorded{TrackID: id})
		}
	})
}

// release drops the current instance. Signals it still holds are never read.
func (o *Owner) release() {
	o.stopPolling()
	o.stopLoadTimer()
	if o.inst != nil {
		o.inst.Release()
		o.inst = nil
	}
}

func (o *Owner) emit(m message.Message) {
	if o.closed.Load() {
		return
	}
	o.bus.Publish(m)
}

func (o *Owner) refresh() {
	for _, s := range o.surfaces {
		s.Refresh(o.state)
	}
}

func (o *Owner) startPolling() {
	if o.ticker == nil {
		o.ticker = time.NewTicker(o.opts.pollInterval)
	}
}

func (o *Owner) stopPolling() {
	if o.ticker != nil {
		o.ticker.Stop()
		o.ticker = nil
	}
}

func (o *Owner) stopLoadTimer() {
	if o.loadTimer != nil {
		o.loadTimer.Stop()
		o.loadTimer = nil
	}
}

func playArgs(t catalog.Track) message.PlayArgs {
	return message.PlayArgs{
		SongID:   t.ID,
		MediaURI: t.MediaURI,
		Title:    t.Title,
		Artist:   t.ArtistLine(),
		ImageURI: t.ImageURI,
	}
}

func tickC(t *time.Ticker) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}

func timerC(t *time.Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}
