package youtube

// sampleYtdlpVideo is a reduced yt-dlp -J response for a single video with
// both a manual and an auto-generated English caption track.
const sampleYtdlpVideo = `{
  "id": "dQw4w9WgXcQ",
  "title": "Test  Video",
  "description": "A description\nwith newlines",
  "subtitles": {
    "en": [
      {"url": "https://example.com/subs.srv3", "ext": "srv3", "name": "English"},
      {"url": "https://example.com/subs.vtt", "ext": "vtt", "name": "English"}
    ]
  },
  "automatic_captions": {
    "en": [
      {"url": "https://example.com/auto.json3", "ext": "json3", "name": "English (auto)"}
    ],
    "fr": [
      {"url": "https://example.com/auto-fr.json3", "ext": "json3", "name": "French (auto)"}
    ]
  }
}`

// sampleYtdlpPlaylist is a reduced flat-playlist response, including one
// unavailable entry that must be skipped.
const sampleYtdlpPlaylist = `{
  "id": "PLtest123",
  "title": "Test Playlist",
  "entries": [
    {"id": "dQw4w9WgXcQ", "title": "Video 1", "url": "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
    {"id": "", "title": "[Deleted video]"},
    {"id": "xQw4w9WgXcZ", "title": "Video 2"}
  ]
}`

// sampleTimedtextXML is a timedtext API response body.
const sampleTimedtextXML = `<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0.5" dur="2.1">hello &amp; welcome</text>
  <text start="2.6" dur="1.4">to the show</text>
  <text start="4.0" dur="1.0">   </text>
</transcript>`

// sampleJSON3 is a json3 caption response body.
const sampleJSON3 = `{
  "events": [
    {"tStartMs": 0, "dDurationMs": 1500, "segs": [{"utf8": "first "}, {"utf8": "fragment"}]},
    {"tStartMs": 1500, "dDurationMs": 800},
    {"tStartMs": 2300, "dDurationMs": 1200, "segs": [{"utf8": "second fragment"}]}
  ]
}`

// sampleVTT is a WebVTT caption document.
const sampleVTT = `WEBVTT
Kind: captions
Language: en

00:00:01.000 --> 00:00:02.500
first cue

00:00:02.500 --> 00:00:04.000
second cue
continued
`
